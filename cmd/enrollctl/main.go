package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"enroll/internal/client"

	"github.com/pkg/errors"
)

// Supported subcommands:
// - signup:  Interactive three-step registration wizard
// - login:   Exchange credentials for a session token
// - profile: Fetch the account behind a session token

func main() {
	signupCmd := flag.NewFlagSet("signup", flag.ExitOnError)
	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	profileCmd := flag.NewFlagSet("profile", flag.ExitOnError)

	signupServer := signupCmd.String("server", "http://localhost:3000", "Base URL of the auth API")

	loginServer := loginCmd.String("server", "http://localhost:3000", "Base URL of the auth API")
	loginEmail := loginCmd.String("email", "", "Account email")
	loginPassword := loginCmd.String("password", "", "Account password")

	profileServer := profileCmd.String("server", "http://localhost:3000", "Base URL of the auth API")
	profileToken := profileCmd.String("token", "", "Session token from login")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var err error
	switch os.Args[1] {
	case "signup":
		_ = signupCmd.Parse(os.Args[2:])
		err = runSignup(ctx, client.New(*signupServer))
	case "login":
		_ = loginCmd.Parse(os.Args[2:])
		err = runLogin(ctx, client.New(*loginServer), *loginEmail, *loginPassword)
	case "profile":
		_ = profileCmd.Parse(os.Args[2:])
		err = runProfile(ctx, client.New(*profileServer), *profileToken)
	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: enrollctl <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  signup   Run the interactive registration wizard")
	fmt.Println("  login    Log in and print a session token")
	fmt.Println("  profile  Show the account for a session token")
}

// runSignup drives the wizard from the terminal. Each step prompts for its
// fields and asks the server to validate before moving on; 'back' steps
// backwards, and stepping back from the first step leaves the flow.
func runSignup(ctx context.Context, apiClient *client.Client) error {
	wizard := client.NewWizard(apiClient)
	reader := bufio.NewReader(os.Stdin)

	for !wizard.Done() {
		switch wizard.Step() {
		case 0:
			fmt.Println("Step 1/3: Identity")
			name, err := prompt(reader, "Full name")
			if err != nil {
				return err
			}
			email, err := prompt(reader, "Email")
			if err != nil {
				return err
			}
			if isBack(name) || isBack(email) {
				if !wizard.Back() {
					fmt.Println("Leaving sign-up.")

					return nil
				}

				continue
			}
			wizard.SetIdentity(name, email)
		case 1:
			fmt.Println("Step 2/3: Contact")
			phone, err := prompt(reader, "Phone")
			if err != nil {
				return err
			}
			password, err := prompt(reader, "Password")
			if err != nil {
				return err
			}
			if isBack(phone) || isBack(password) {
				wizard.Back()

				continue
			}
			wizard.SetContact(phone, password)
		case 2:
			fmt.Println("Step 3/3: Confirmation")
			confirm, err := prompt(reader, "Confirm password")
			if err != nil {
				return err
			}
			if isBack(confirm) {
				wizard.Back()

				continue
			}
			agree, err := prompt(reader, "Agree to terms? (yes/no)")
			if err != nil {
				return err
			}
			wizard.SetConfirmation(confirm, strings.EqualFold(agree, "yes"))
		}

		if err := wizard.Next(ctx); err != nil {
			var apiErr *client.APIError
			if errors.As(err, &apiErr) {
				fmt.Printf("Rejected: %s\n", apiErr.Message)

				continue
			}

			return err
		}
	}

	fmt.Println("Registration complete. You can now log in.")

	return nil
}

func runLogin(ctx context.Context, apiClient *client.Client, email, password string) error {
	if email == "" || password == "" {
		return errors.New("both -email and -password are required")
	}

	session, err := apiClient.Login(ctx, email, password)
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s (%s)\n", session.User.Name, session.User.Email)
	fmt.Printf("Token: %s\n", session.Token)

	return nil
}

func runProfile(ctx context.Context, apiClient *client.Client, token string) error {
	if token == "" {
		return errors.New("-token is required")
	}

	user, err := apiClient.Profile(ctx, token)
	if err != nil {
		return err
	}

	fmt.Printf("ID:    %s\n", user.ID)
	fmt.Printf("Name:  %s\n", user.Name)
	fmt.Printf("Email: %s\n", user.Email)
	fmt.Printf("Phone: %s\n", user.Phone)

	return nil
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Printf("%s: ", label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", errors.Wrap(err, "failed to read input")
	}

	return strings.TrimSpace(line), nil
}

func isBack(input string) bool {
	return strings.EqualFold(input, "back")
}

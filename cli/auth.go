package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"syscall"

	"github.com/lectorio/lectorio/cli/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	username string
	email    string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Register and login commands for Lectorio authentication.`,
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account",
	Long:  `Register a new Lectorio account with username and email.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if username == "" {
			return fmt.Errorf("username is required (--username)")
		}
		if email == "" {
			return fmt.Errorf("email is required (--email)")
		}

		fmt.Print("Password: ")
		passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password := string(passwordBytes)

		fmt.Print("Confirm password: ")
		confirmBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password confirmation: %w", err)
		}
		if password != string(confirmBytes) {
			printError("Passwords do not match")
			return fmt.Errorf("passwords do not match")
		}

		serverURL, err := config.GetServerURL()
		if err != nil {
			printError("Configuration not initialized")
			fmt.Println("Run: lectorioctl init")
			return err
		}

		reqBody := map[string]string{
			"username": username,
			"email":    email,
			"password": password,
		}
		jsonData, _ := json.Marshal(reqBody)

		res, err := http.Post(serverURL+"/auth/register", "application/json", bytes.NewBuffer(jsonData))
		if err != nil {
			printError("Registration failed: Server connection error")
			return err
		}
		defer res.Body.Close()

		body, _ := io.ReadAll(res.Body)

		if res.StatusCode != http.StatusCreated {
			var errRes map[string]string
			json.Unmarshal(body, &errRes)
			printError(fmt.Sprintf("Registration failed: %s", errRes["error"]))
			return fmt.Errorf("registration failed")
		}

		var authRes struct {
			Token    string `json:"token"`
			Username string `json:"username"`
		}
		if err := json.Unmarshal(body, &authRes); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}

		if err := config.UpdateUserToken(authRes.Username, authRes.Token); err != nil {
			printError("Registered, but failed to save credentials locally")
			return err
		}

		printSuccess(fmt.Sprintf("Registered and logged in as %s", authRes.Username))
		return nil
	},
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to an existing account",
	Long:  `Log in to Lectorio and store the access token locally.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if username == "" {
			return fmt.Errorf("username is required (--username)")
		}

		fmt.Print("Password: ")
		passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		serverURL, err := config.GetServerURL()
		if err != nil {
			printError("Configuration not initialized")
			fmt.Println("Run: lectorioctl init")
			return err
		}

		reqBody := map[string]string{
			"username": username,
			"password": string(passwordBytes),
		}
		jsonData, _ := json.Marshal(reqBody)

		res, err := http.Post(serverURL+"/auth/login", "application/json", bytes.NewBuffer(jsonData))
		if err != nil {
			printError("Login failed: Server connection error")
			return err
		}
		defer res.Body.Close()

		body, _ := io.ReadAll(res.Body)

		if res.StatusCode != http.StatusOK {
			var errRes map[string]string
			json.Unmarshal(body, &errRes)
			printError(fmt.Sprintf("Login failed: %s", errRes["error"]))
			return fmt.Errorf("login failed")
		}

		var authRes struct {
			Token    string `json:"token"`
			Username string `json:"username"`
		}
		if err := json.Unmarshal(body, &authRes); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}

		if err := config.UpdateUserToken(authRes.Username, authRes.Token); err != nil {
			printError("Logged in, but failed to save credentials locally")
			return err
		}

		printSuccess(fmt.Sprintf("Logged in as %s", authRes.Username))
		return nil
	},
}

func init() {
	authRegisterCmd.Flags().StringVar(&username, "username", "", "Account username")
	authRegisterCmd.Flags().StringVar(&email, "email", "", "Account email")
	authLoginCmd.Flags().StringVar(&username, "username", "", "Account username")
}

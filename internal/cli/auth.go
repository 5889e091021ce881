package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zmusic/zmusic/internal/wizard"
	zmusicauth "github.com/zmusic/zmusic/internal/zmusic/auth"
)

var (
	loginEmail    string
	loginPassword string

	registerName     string
	registerEmail    string
	registerPassword string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Commands for logging in to and out of the zMusic backend.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password",
	Long:  `Authenticates against the backend and stores the session locally. Missing credentials are prompted for when run in a terminal.`,
	RunE:  runAuthLogin,
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE:  runAuthRegister,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session",
	RunE:  runAuthLogout,
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in identity",
	RunE:  runAuthWhoami,
}

func init() {
	authLoginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	authLoginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
	authRegisterCmd.Flags().StringVar(&registerName, "name", "", "Display name")
	authRegisterCmd.Flags().StringVar(&registerEmail, "email", "", "Account email")
	authRegisterCmd.Flags().StringVar(&registerPassword, "password", "", "Account password")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authWhoamiCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	store, err := newSessionStore()
	if err != nil {
		return err
	}

	creds := zmusicauth.Credentials{Email: loginEmail, Password: loginPassword}
	if (creds.Email == "" || creds.Password == "") && wizard.IsTerminal() {
		if err := wizard.PromptLogin(&creds); err != nil {
			return err
		}
	}

	session, err := store.Login(context.Background(), creds)
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s (%s)\n", session.Identity.DisplayName, session.Identity.Role)
	return nil
}

func runAuthRegister(cmd *cobra.Command, args []string) error {
	store, err := newSessionStore()
	if err != nil {
		return err
	}

	profile := zmusicauth.Profile{
		DisplayName: registerName,
		Email:       registerEmail,
		Password:    registerPassword,
	}
	if (profile.DisplayName == "" || profile.Email == "" || profile.Password == "") && wizard.IsTerminal() {
		if err := wizard.PromptRegister(&profile); err != nil {
			return err
		}
	}

	session, err := store.Register(context.Background(), profile)
	if err != nil {
		return err
	}

	fmt.Printf("Account created. Logged in as %s (%s)\n", session.Identity.DisplayName, session.Identity.Role)
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	store, err := newSessionStore()
	if err != nil {
		return err
	}

	if err := store.Logout(); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func runAuthWhoami(cmd *cobra.Command, args []string) error {
	store, err := newSessionStore()
	if err != nil {
		return err
	}

	user := store.CurrentUser()
	if user == nil {
		fmt.Println("Not logged in")
		return nil
	}

	if JSONOutput() {
		out, _ := json.MarshalIndent(user, "", "  ")
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("%s <%s> (%s)\n", user.DisplayName, user.Email, user.Role)
	return nil
}

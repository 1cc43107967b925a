// ABOUTME: Admin CLI for deskhub account management
// ABOUTME: Operates directly on the accounts file named by the server config

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/mark-dames/deskhub/internal/account"
	"github.com/mark-dames/deskhub/internal/config"
)

const banner = `
     _           _    _           _
  __| | ___  ___| | _| |__  _   _| |__
 / _' |/ _ \/ __| |/ / '_ \| | | | '_ \
| (_| |  __/\__ \   <| | | | |_| | |_) |  admin
 \__,_|\___||___/_|\_\_| |_|\__,_|_.__/
`

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "users":
		err = cmdUsers(args)
	case "backup":
		err = cmdBackup()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: deskhub-admin <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  users                   List all accounts")
	fmt.Println("  users list              List all accounts")
	fmt.Println("  users create <name>     Create an account (prompts for password)")
	fmt.Println("  users passwd <name>     Change an account's password")
	fmt.Println("  users check <name>      Verify an account's password")
	fmt.Println("  users delete <name>     Delete an account")
	fmt.Println("  backup                  Copy the accounts file aside")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  DESKHUB_CONFIG           Config file path (default: ~/.config/deskhub/deskhub.yaml)")
	fmt.Println()
	yellow.Println("Examples:")
	fmt.Println("  deskhub-admin users create alice")
	fmt.Println("  deskhub-admin users check alice")
	fmt.Println()
}

// getConfigPath mirrors the server's config resolution so both binaries
// always talk about the same accounts file.
func getConfigPath() string {
	if envPath := os.Getenv("DESKHUB_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "deskhub.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "deskhub", "deskhub.yaml")
}

func openStore() (*account.FileStore, string, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}
	return account.NewFileStore(cfg.Data.AccountsPath), cfg.Data.AccountsPath, nil
}

func cmdUsers(args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
		args = args[1:]
	}

	switch sub {
	case "list":
		return usersList()
	case "create":
		if len(args) < 1 {
			return fmt.Errorf("usage: deskhub-admin users create <name>")
		}
		return usersCreate(args[0])
	case "passwd":
		if len(args) < 1 {
			return fmt.Errorf("usage: deskhub-admin users passwd <name>")
		}
		return usersPasswd(args[0])
	case "check":
		if len(args) < 1 {
			return fmt.Errorf("usage: deskhub-admin users check <name>")
		}
		return usersCheck(args[0])
	case "delete":
		if len(args) < 1 {
			return fmt.Errorf("usage: deskhub-admin users delete <name>")
		}
		return usersDelete(args[0])
	default:
		return fmt.Errorf("unknown users subcommand: %s", sub)
	}
}

func usersList() error {
	store, path, err := openStore()
	if err != nil {
		return err
	}

	usernames, err := store.Usernames()
	if err != nil {
		return fmt.Errorf("reading accounts: %w", err)
	}
	sort.Strings(usernames)

	cyan := color.New(color.FgCyan)
	cyan.Printf("Accounts in %s:\n\n", path)

	if len(usernames) == 0 {
		fmt.Println("  (none)")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  USERNAME")
	for _, name := range usernames {
		fmt.Fprintf(w, "  %s\n", name)
	}
	return w.Flush()
}

func usersCreate(username string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}

	if err := store.Create(username, password); err != nil {
		return fmt.Errorf("creating account: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Print("✓ ")
	fmt.Printf("Created account %s\n", username)
	return nil
}

func usersPasswd(username string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}

	if err := store.ChangePassword(username, password); err != nil {
		return fmt.Errorf("changing password: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Print("✓ ")
	fmt.Printf("Password changed for %s\n", username)
	return nil
}

func usersCheck(username string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}

	if !store.Verify(username, password) {
		return fmt.Errorf("password does not match for %s", username)
	}

	green := color.New(color.FgGreen)
	green.Print("✓ ")
	fmt.Printf("Password matches for %s\n", username)
	return nil
}

func usersDelete(username string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}

	if err := store.Delete(username); err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Print("✓ ")
	fmt.Printf("Deleted account %s\n", username)
	return nil
}

// cmdBackup copies the accounts file next to itself under a unique name.
func cmdBackup() error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	src, err := os.Open(cfg.Data.AccountsPath)
	if err != nil {
		return fmt.Errorf("opening accounts file: %w", err)
	}
	defer src.Close()

	backupPath := cfg.Data.AccountsPath + "." + uuid.New().String() + ".bak"
	dst, err := os.OpenFile(backupPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("creating backup file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copying accounts file: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Print("✓ ")
	fmt.Printf("Backed up accounts to %s\n", backupPath)
	return nil
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return password, nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	var code int
	switch os.Args[1] {
	case "invite-org":
		code = runInviteOrg(os.Args[2:], os.Stdout)
	case "invite-project":
		code = runInviteProject(os.Args[2:], os.Stdout)
	case "notebooks":
		code = runNotebooks(os.Args[2:], os.Stdout)
	case "-h", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		code = 2
	}
	os.Exit(code)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  studioinvite invite-org --csv users.csv [--org <id>] [--audit-log <path>]")
	fmt.Fprintln(os.Stderr, "  studioinvite invite-project [--org <id>] [--project <id>] [--audit-log <path>]")
	fmt.Fprintln(os.Stderr, "  studioinvite notebooks [--root <dir>] [--timeout 600s] [--kernel python3]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Notes:")
	fmt.Fprintln(os.Stderr, "  - Credentials come from EDGEIMPULSE_USERNAME/EDGEIMPULSE_PASSWORD, secrets.json, or a prompt.")
	fmt.Fprintln(os.Stderr, "  - --org defaults to EDGEIMPULSE_ORG_ID, --project to EDGEIMPULSE_PROJECT_ID.")
}

// signalContext is canceled on Ctrl-C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

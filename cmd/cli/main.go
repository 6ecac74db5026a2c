package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gowallet-cli",
		Short: "GoWallet CLI tool",
		Long:  `A command line interface for interacting with the GoWallet API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the GoWallet API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		createWalletCmd(),
		getWalletCmd(),
		depositCmd(),
		withdrawCmd(),
		transferCmd(),
		rollbackCmd(),
		transactionsCmd(),
		auditCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func createWalletCmd() *cobra.Command {
	var userID, currency string

	cmd := &cobra.Command{
		Use:   "create-wallet",
		Short: "Create a new wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/wallets/", map[string]string{
				"user_id":  userID,
				"currency": currency,
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Owner user ID")
	cmd.Flags().StringVar(&currency, "currency", "USD", "Wallet currency code")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func getWalletCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-wallet <wallet-id>",
		Short: "Show a wallet and its balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/wallets/" + args[0])
		},
	}
}

func depositCmd() *cobra.Command {
	return moneyOperationCmd("deposit", "Deposit funds into a wallet", "deposit")
}

func withdrawCmd() *cobra.Command {
	return moneyOperationCmd("withdraw", "Withdraw funds from a wallet", "withdrawal")
}

func moneyOperationCmd(use, short, endpoint string) *cobra.Command {
	var walletID, amount, currency, provider string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/wallets/"+walletID+"/"+endpoint, map[string]string{
				"amount":   amount,
				"currency": currency,
				"provider": provider,
			})
		},
	}

	cmd.Flags().StringVar(&walletID, "wallet", "", "Wallet ID")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount, e.g. 10.50")
	cmd.Flags().StringVar(&currency, "currency", "USD", "Currency code")
	cmd.Flags().StringVar(&provider, "provider", "cli", "Originating payment provider")
	_ = cmd.MarkFlagRequired("wallet")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func transferCmd() *cobra.Command {
	var sender, receiver, amount, currency, provider string

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer funds between two wallets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/transfers", map[string]string{
				"sender_wallet_id":   sender,
				"receiver_wallet_id": receiver,
				"amount":             amount,
				"currency":           currency,
				"provider":           provider,
			})
		},
	}

	cmd.Flags().StringVar(&sender, "from", "", "Sender wallet ID")
	cmd.Flags().StringVar(&receiver, "to", "", "Receiver wallet ID")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount, e.g. 10.50")
	cmd.Flags().StringVar(&currency, "currency", "USD", "Currency code")
	cmd.Flags().StringVar(&provider, "provider", "cli", "Originating payment provider")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func rollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rollback <transaction-id>",
		Short: "Reverse a deposit or withdrawal with a compensating entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postJSON("/api/v1/transactions/"+args[0]+"/rollback", nil)
		},
	}
}

func transactionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transactions <wallet-id>",
		Short: "List a wallet's ledger entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/wallets/" + args[0] + "/transactions")
		},
	}
}

func auditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit <wallet-id>",
		Short: "Recompute a wallet's balance from its ledger history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getJSON("/api/v1/wallets/" + args[0] + "/audit")
		},
	}
}

func getJSON(path string) error {
	client := &http.Client{Timeout: timeout}

	resp, err := client.Get(baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func postJSON(path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	client := &http.Client{Timeout: timeout}

	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("failed to parse response (status %d): %s", resp.StatusCode, string(body))
	}

	printJSON(parsed)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to render response: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

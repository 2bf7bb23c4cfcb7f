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
	"golang.org/x/crypto/bcrypt"
)

var (
	baseURL string
	timeout time.Duration
	token   string
)

// Swappable for tests.
var bcryptGenerate = bcrypt.GenerateFromPassword

func main() {
	rootCmd := &cobra.Command{
		Use:   "gobudget-cli",
		Short: "GoBudget CLI tool",
		Long:  `A command line interface for interacting with the GoBudget API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the GoBudget API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("GOBUDGET_TOKEN"), "Bearer token for authenticated endpoints")

	rootCmd.AddCommand(healthCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(walletCmd())
	rootCmd.AddCommand(entryCmd())
	rootCmd.AddCommand(hashPasswordCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check API health",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := doRequest(http.MethodGet, "/ready", nil)
			if err != nil {
				return err
			}

			var result map[string]any
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			printJSON(result)
			return nil
		},
	}
}

func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and print a bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]string{"email": email, "password": password}
			body, err := doRequest(http.MethodPost, "/api/v1/auth/login", payload)
			if err != nil {
				return err
			}

			var result struct {
				Token string `json:"token"`
			}
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			fmt.Println(result.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func walletCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Wallet operations",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List wallets",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := doRequest(http.MethodGet, "/api/v1/wallets/", nil)
			if err != nil {
				return err
			}

			var result struct {
				Wallets []struct {
					ID          string `json:"id"`
					CurrencyID  string `json:"currency_id"`
					Balance     string `json:"balance"`
					Description string `json:"description"`
					IsGeneral   bool   `json:"is_general"`
				} `json:"wallets"`
			}
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			for _, w := range result.Wallets {
				marker := " "
				if w.IsGeneral {
					marker = "*"
				}
				fmt.Printf("%s %-26s  %-4s  %14s  %s\n",
					marker, w.ID, w.CurrencyID, w.Balance, truncate(w.Description, 40))
			}
			return nil
		},
	}

	var currencyID, balance, description string
	var isGeneral bool

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{
				"currency_id": currencyID,
				"balance":     balance,
				"description": description,
				"is_general":  isGeneral,
			}
			body, err := doRequest(http.MethodPost, "/api/v1/wallets/", payload)
			if err != nil {
				return err
			}

			var result map[string]any
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			printJSON(result)
			return nil
		},
	}
	createCmd.Flags().StringVar(&currencyID, "currency", "", "Wallet currency ID")
	createCmd.Flags().StringVar(&balance, "balance", "0", "Opening balance")
	createCmd.Flags().StringVar(&description, "description", "", "Wallet description")
	createCmd.Flags().BoolVar(&isGeneral, "general", false, "Mark as the general wallet")
	_ = createCmd.MarkFlagRequired("currency")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := doRequest(http.MethodDelete, "/api/v1/wallets/"+args[0], nil); err != nil {
				return err
			}

			fmt.Println("deleted")
			return nil
		},
	}

	cmd.AddCommand(listCmd, createCmd, deleteCmd)
	return cmd
}

func entryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Budget entry operations",
	}

	var sortBy, sortDirection string
	var limit int

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List budget entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/entries/?sort_by=%s&sort_direction=%s&limit=%d",
				sortBy, sortDirection, limit)
			body, err := doRequest(http.MethodGet, path, nil)
			if err != nil {
				return err
			}

			var result struct {
				Entries []struct {
					ID          string    `json:"id"`
					WalletID    string    `json:"wallet_id"`
					Value       string    `json:"value"`
					CurrencyID  string    `json:"currency_id"`
					DebitAmount string    `json:"debit_amount"`
					Date        time.Time `json:"date"`
					Name        string    `json:"name"`
				} `json:"entries"`
			}
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			for _, e := range result.Entries {
				fmt.Printf("%s  %-26s  %10s %-4s  debit %10s  %s\n",
					e.Date.Format("2006-01-02"), e.ID, e.Value, e.CurrencyID,
					e.DebitAmount, truncate(e.Name, 30))
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&sortBy, "sort-by", "date", "Sort column (date, name, value, created_at)")
	listCmd.Flags().StringVar(&sortDirection, "sort-direction", "desc", "Sort direction (asc, desc)")
	listCmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of entries")

	var walletID, categoryID, currencyID, value, name, description string

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record a spend against a wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{
				"wallet_id":   walletID,
				"category_id": categoryID,
				"currency_id": currencyID,
				"value":       value,
				"name":        name,
				"description": description,
			}
			body, err := doRequest(http.MethodPost, "/api/v1/entries/", payload)
			if err != nil {
				return err
			}

			var result map[string]any
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			printJSON(result)
			return nil
		},
	}
	addCmd.Flags().StringVar(&walletID, "wallet", "", "Wallet ID to debit")
	addCmd.Flags().StringVar(&categoryID, "category", "", "Category ID")
	addCmd.Flags().StringVar(&currencyID, "currency", "", "Spend currency ID")
	addCmd.Flags().StringVar(&value, "value", "", "Spend amount")
	addCmd.Flags().StringVar(&name, "name", "", "Entry name")
	addCmd.Flags().StringVar(&description, "description", "", "Entry description")
	_ = addCmd.MarkFlagRequired("wallet")
	_ = addCmd.MarkFlagRequired("category")
	_ = addCmd.MarkFlagRequired("currency")
	_ = addCmd.MarkFlagRequired("value")
	_ = addCmd.MarkFlagRequired("name")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a budget entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := doRequest(http.MethodDelete, "/api/v1/entries/"+args[0], nil); err != nil {
				return err
			}

			fmt.Println("deleted")
			return nil
		},
	}

	cmd.AddCommand(listCmd, addCmd, deleteCmd)
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for seeding users",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			fmt.Println(string(hash))
			return nil
		},
	}
}

func doRequest(method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to render response: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/evgeny-myasishchev/bank-ledger/pkg/app"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/client"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/ledger"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/lib-core-golang/diag"
)

var logger = diag.CreateLogger()

var cliArgs struct {
	cmd        string
	server     string
	account    string
	credential string
	amount     string
	limit      int
	from       string
	to         string
	trxType    string
	day        string
}

func init() {
	flag.StringVar(&cliArgs.cmd, "cmd", "",
		"Command to run. Available commands: open, account, deposit, withdraw, history, range, filter, balance")
	flag.StringVar(&cliArgs.server, "server", "", "Server base url. Defaults to client/baseURL config")
	flag.StringVar(&cliArgs.account, "account", "", "Account id")
	flag.StringVar(&cliArgs.credential, "credential", "", "Account credential (open, withdraw)")
	flag.StringVar(&cliArgs.amount, "amount", "", "Amount (open, deposit, withdraw)")
	flag.IntVar(&cliArgs.limit, "limit", 0, "Number of recent transactions (history)")
	flag.StringVar(&cliArgs.from, "from", "", "Start date YYYY-MM-DD (range)")
	flag.StringVar(&cliArgs.to, "to", "", "End date YYYY-MM-DD (range)")
	flag.StringVar(&cliArgs.trxType, "type", "", "Transaction type: Deposit, Withdraw or all (filter)")
	flag.StringVar(&cliArgs.day, "day", "", "Day YYYY-MM-DD (filter)")

	flag.Parse()
}

func showHelpAndExit() {
	flag.PrintDefaults()
	os.Exit(1)
}

func parseAmount() decimal.Decimal {
	if cliArgs.amount == "" {
		return decimal.Zero
	}
	amount, err := ledger.ParseAmount(cliArgs.amount)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return amount
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func run(ctx context.Context, api client.API) (interface{}, error) {
	switch cliArgs.cmd {
	case "open":
		return api.OpenAccount(ctx, ledger.OpenAccountParams{
			AccountID:      cliArgs.account,
			Credential:     cliArgs.credential,
			InitialBalance: parseAmount(),
		})
	case "account":
		return api.GetAccount(ctx, cliArgs.account)
	case "deposit":
		return api.Deposit(ctx, cliArgs.account, parseAmount())
	case "withdraw":
		return api.Withdraw(ctx, cliArgs.account, parseAmount(), cliArgs.credential)
	case "history":
		return api.RecentHistory(ctx, cliArgs.account, cliArgs.limit)
	case "range":
		return api.HistoryInRange(ctx, cliArgs.account, cliArgs.from, cliArgs.to)
	case "filter":
		return api.FilteredHistory(ctx, ledger.HistoryFilter{
			AccountID: cliArgs.account,
			Type:      cliArgs.trxType,
			Day:       cliArgs.day,
		})
	case "balance":
		return api.VerifyBalance(ctx, cliArgs.account)
	}
	showHelpAndExit()
	return nil, nil
}

func main() {
	if cliArgs.cmd == "" || (cliArgs.account == "" && cliArgs.cmd != "filter") {
		showHelpAndExit()
	}
	ctx := diag.ContextWithRequestID(context.Background(), "bankctl-"+cliArgs.cmd)

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.WithError(err).Warn(ctx, "Failed to load .env file")
	}

	baseURL := cliArgs.server
	if baseURL == "" {
		appCfg, err := app.LoadConfig()
		if err != nil {
			logger.WithError(err).Error(ctx, "Failed to load app config")
			os.Exit(1)
		}
		diag.SetupLoggingSystem(func(setup diag.LoggingSystemSetup) {
			setup.SetLogLevel(appCfg.Log.Level)
		})
		baseURL = appCfg.Client.BaseURL
	}

	result, err := run(ctx, client.NewAPI(baseURL))
	if err != nil {
		logger.WithError(err).Error(ctx, "Command %v failed", cliArgs.cmd)
		if kind := ledger.KindOf(err); kind != "" {
			fmt.Fprintf(os.Stderr, "%v\n", kind)
		}
		os.Exit(1)
	}
	if err := printJSON(result); err != nil {
		logger.WithError(err).Error(ctx, "Failed to print result")
		os.Exit(1)
	}
}

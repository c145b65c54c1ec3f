package main

import (
	_ "time/tzdata"

	"github.com/capital/finance/app/cmd"
)

// @title Capital API
// @version 1.0
// @description Personal finance backend: accounts, transactions, installment reminders, goals and summaries.

// @host  localhost:8000
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cmd.Execute()
}

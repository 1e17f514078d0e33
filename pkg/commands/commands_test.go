package commands_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/openbank/ledger/pkg/commands"
	"github.com/stretchr/testify/assert"
)

func TestCreateAccountCommand(t *testing.T) {
	valid := commands.CreateAccountCommand{OwnerID: uuid.New(), Type: "checking"}
	assert.NoError(t, commands.Validate(valid))

	tests := []struct {
		name string
		cmd  commands.CreateAccountCommand
	}{
		{"missing owner", commands.CreateAccountCommand{Type: "checking"}},
		{"missing type", commands.CreateAccountCommand{OwnerID: uuid.New()}},
		{"type too long", commands.CreateAccountCommand{OwnerID: uuid.New(), Type: strings.Repeat("x", 21)}},
		{"bad currency length", commands.CreateAccountCommand{OwnerID: uuid.New(), Type: "checking", Currency: "US"}},
		{"non-alpha currency", commands.CreateAccountCommand{OwnerID: uuid.New(), Type: "checking", Currency: "U2D"}},
		{"negative initial balance", commands.CreateAccountCommand{OwnerID: uuid.New(), Type: "checking", InitialBalance: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, commands.Validate(tt.cmd))
		})
	}
}

func TestDepositWithdrawCommands(t *testing.T) {
	assert.NoError(t, commands.Validate(commands.DepositCommand{AccountID: uuid.New(), Amount: 1}))
	assert.Error(t, commands.Validate(commands.DepositCommand{AccountID: uuid.New(), Amount: 0}))
	assert.Error(t, commands.Validate(commands.DepositCommand{Amount: 1}))

	assert.NoError(t, commands.Validate(commands.WithdrawCommand{AccountID: uuid.New(), Amount: 1}))
	assert.Error(t, commands.Validate(commands.WithdrawCommand{AccountID: uuid.New(), Amount: -1}))
	assert.Error(t, commands.Validate(commands.WithdrawCommand{
		AccountID: uuid.New(), Amount: 1, Description: strings.Repeat("x", 256),
	}))
}

func TestTransferCommand(t *testing.T) {
	valid := commands.TransferCommand{FromAccountID: uuid.New(), ToAccountNumber: "123456789012", Amount: 10}
	assert.NoError(t, commands.Validate(valid))

	// The amount is not a struct rule; recipient resolution runs first.
	zeroAmount := valid
	zeroAmount.Amount = 0
	assert.NoError(t, commands.Validate(zeroAmount))

	tests := []struct {
		name string
		cmd  commands.TransferCommand
	}{
		{"missing source", commands.TransferCommand{ToAccountNumber: "123456789012", Amount: 10}},
		{"short number", commands.TransferCommand{FromAccountID: uuid.New(), ToAccountNumber: "12345", Amount: 10}},
		{"non-numeric number", commands.TransferCommand{FromAccountID: uuid.New(), ToAccountNumber: "12345678901X", Amount: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, commands.Validate(tt.cmd))
		})
	}
}

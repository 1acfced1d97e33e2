package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/leavedesk/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account fields and attempts to create a new
// account via the API. Employees pick a manager from the published list; the
// server only accepts an empty pick while no managers are registered.
//
// On success it prints "Success!" and returns nil. The password byte slice
// is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	role, err := getSimpleText(a.reader, "Enter role (Employee/Manager)", os.Stdout)
	if err != nil {
		return err
	}

	var managerID *int64
	if strings.EqualFold(role, "Employee") {
		if err := a.printManagers(ctx); err != nil {
			return err
		}
		answer, err := getSimpleText(a.reader, "Enter manager id (may be left empty only while no managers exist)", os.Stdout)
		if err != nil {
			return err
		}
		if answer != "" {
			id, err := strconv.ParseInt(answer, 10, 64)
			if err != nil {
				printlnFn("Invalid manager id:", answer)
				return err
			}
			managerID = &id
		}
	}

	if _, err := a.api.Register(ctx, name, email, string(password), role, managerID); err != nil {
		if errors.Is(err, common.ErrorDuplicateEmail) {
			printlnFn("This email is already registered")
		} else {
			printlnFn("Registration failed:", err.Error())
		}
		return err
	}

	printlnFn("Success!")
	return nil
}

// Login prompts for credentials and authenticates against the server. On
// success the client keeps the issued tokens for subsequent commands.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			printlnFn("Invalid email or password")
		} else {
			printlnFn("Login failed:", err.Error())
		}
		return err
	}

	printlnFn(fmt.Sprintf("Welcome, %s!", user.Name))
	return nil
}

// Logout drops the stored tokens.
func (a *App) Logout(ctx context.Context) error {
	a.api.Logout()
	printlnFn("Logged out")
	return nil
}

// Managers prints the list of users that can be chosen as a manager.
func (a *App) Managers(ctx context.Context) error {
	return a.printManagers(ctx)
}

func (a *App) printManagers(ctx context.Context) error {
	list, err := a.api.Managers(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	if len(list) == 0 {
		printlnFn("No managers registered yet")
		return nil
	}

	printlnFn("Available managers:")
	for _, m := range list {
		printlnFn(fmt.Sprintf("  [%d] %s", m.ID, m.Name))
	}
	return nil
}

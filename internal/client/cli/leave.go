package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/dmitrijs2005/leavedesk/internal/client/httpclient"
	"github.com/dmitrijs2005/leavedesk/internal/common"
)

// Apply prompts for the leave type and an optional comment and submits a new
// request. The server assigns the current manager and the Waiting status.
func (a *App) Apply(ctx context.Context) error {
	leaveType, err := getSimpleText(a.reader, "Enter leave type (Personal/Sick/Official)", os.Stdout)
	if err != nil {
		return err
	}

	comment, err := getSimpleText(a.reader, "Enter comment (optional)", os.Stdout)
	if err != nil {
		return err
	}

	lr, err := a.api.Apply(ctx, leaveType, comment)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorForbidden):
			printlnFn("Only employees can apply for leave")
		case errors.Is(err, common.ErrorValidation):
			printlnFn("Invalid leave type:", leaveType)
		default:
			printlnFn("Error:", err.Error())
		}
		return err
	}

	printlnFn(fmt.Sprintf("Submitted request #%d (%s)", lr.ID, lr.Status))
	return nil
}

// List prints the logged-in user's own requests, oldest first.
func (a *App) List(ctx context.Context) error {
	list, err := a.api.MyRequests(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	if len(list) == 0 {
		printlnFn("No leave requests yet")
		return nil
	}

	for _, lr := range list {
		printlnFn(formatRequest(&lr))
	}
	return nil
}

// Team prints the requests assigned to the logged-in manager.
func (a *App) Team(ctx context.Context) error {
	list, err := a.api.TeamRequests(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorForbidden) {
			printlnFn("Only managers can view team requests")
		} else {
			printlnFn("Error:", err.Error())
		}
		return err
	}

	if len(list) == 0 {
		printlnFn("No requests assigned to you")
		return nil
	}

	for _, lr := range list {
		printlnFn(formatRequest(&lr))
	}
	return nil
}

// Approve approves the request named by the command argument.
func (a *App) Approve(ctx context.Context, args []string) error {
	return a.decide(ctx, args, true)
}

// Reject rejects the request named by the command argument.
func (a *App) Reject(ctx context.Context, args []string) error {
	return a.decide(ctx, args, false)
}

func (a *App) decide(ctx context.Context, args []string, approve bool) error {
	if len(args) != 1 {
		printlnFn("Usage: approve <id> | reject <id>")
		return common.ErrorValidation
	}

	requestID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		printlnFn("Invalid request id:", args[0])
		return err
	}

	if err := a.api.Decide(ctx, requestID, approve); err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			printlnFn("Request not found:", args[0])
		case errors.Is(err, common.ErrorForbidden):
			printlnFn("You cannot decide this request")
		case errors.Is(err, common.ErrorInvalidTransition):
			printlnFn("Request is already decided")
		default:
			printlnFn("Error:", err.Error())
		}
		return err
	}

	printlnFn("Done")
	return nil
}

func formatRequest(lr *httpclient.LeaveRequest) string {
	line := fmt.Sprintf("  [%d] %s  %-8s  %s", lr.ID, lr.DateOfApplication, lr.Status, lr.LeaveType)
	if lr.EmployeeName != "" {
		line += "  by " + lr.EmployeeName
	}
	if lr.Comment != "" {
		line += "  (" + lr.Comment + ")"
	}
	return line
}

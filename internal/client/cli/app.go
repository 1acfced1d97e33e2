package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/dmitrijs2005/leavedesk/internal/client/config"
	"github.com/dmitrijs2005/leavedesk/internal/client/httpclient"
)

type App struct {
	config *config.Config
	api    *httpclient.Client
	reader *bufio.Reader
}

func NewApp(c *config.Config) *App {
	api := httpclient.NewClient(c.ServerEndpointAddr, c.RequestTimeout)
	return &App{config: c, api: api, reader: bufio.NewReader(os.Stdin)}
}

func (a *App) Run(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.api.IsLoggedIn()
}

// status renders the prompt segment: the logged-in user's email and role, or
// "guest".
func (a *App) status() string {
	user := a.api.CurrentUser()
	if user == nil {
		return "guest"
	}
	return user.Email + " (" + user.Role + ")"
}

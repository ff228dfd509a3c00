// Package cli implements the interactive signctl shell.
package cli

import (
	"bufio"
	"os"

	"github.com/signdesk/signdesk/internal/client/api"
	"github.com/signdesk/signdesk/internal/client/config"
)

type App struct {
	config *config.Config
	api    *api.Client
	email  string
	reader *bufio.Reader
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		api:    api.NewClient(c),
		reader: bufio.NewReader(os.Stdin),
	}
}

func (a *App) isLoggedIn() bool {
	return a.api.Token() != ""
}

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fooddelivery/internal/client/models"
	"github.com/dmitrijs2005/fooddelivery/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// login asks for credentials and signs in. The username may be given as the
// first argument; otherwise the last one used is offered as a default.
//
// On success the command that sent the user here, if any, runs next.
func (a *App) login(ctx context.Context, args []string) error {
	username := ""
	if len(args) > 0 {
		username = args[0]
	} else {
		last, err := a.creds.LastUsername(ctx)
		if err != nil {
			a.log.Warn(ctx, "reading last username", "error", err)
		}
		prompt := "Enter username"
		if last != "" {
			prompt = fmt.Sprintf("Enter username [%s]", last)
		}
		username, err = getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return err
		}
		if username == "" {
			username = last
		}
	}
	if strings.TrimSpace(username) == "" {
		return models.ErrEmptyUsername
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	req := models.LoginRequest{Username: username, Password: string(password)}
	if err := req.Validate(); err != nil {
		return err
	}
	if err := a.session.Login(ctx, req.Username, req.Password); err != nil {
		return err
	}

	a.println("Logged in as", username)
	return a.resume(ctx)
}

func (a *App) logout(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		a.println("Not logged in.")
		return nil
	}
	a.session.Logout(ctx)
	a.println("Logged out.")
	return nil
}

func (a *App) whoami(ctx context.Context, args []string) error {
	u, _ := a.session.User()
	a.println(fmt.Sprintf("%s (id %d)", u.Username, u.ID))
	return nil
}

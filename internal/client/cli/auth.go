package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/fitclub/internal/client/client"
	"github.com/dmitrijs2005/fitclub/internal/client/services"
	"github.com/dmitrijs2005/fitclub/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account fields, checks them locally and creates
// the account. On success the user is signed in.
func (a *App) Register(ctx context.Context) error {
	var req client.RegisterRequest
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"First name", &req.FirstName},
		{"Last name", &req.LastName},
		{"Email", &req.Email},
		{"Phone (optional)", &req.Phone},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirmation, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirmation)

	req.Password = string(password)
	if err := services.ValidateRegistration(req, string(confirmation)); err != nil {
		fmt.Fprintln(a.out, errorStyle.Render(err.Error()))
		return err
	}

	res := a.auth.Register(ctx, req)
	if !res.Success {
		fmt.Fprintln(a.out, errorStyle.Render("Registration failed: "+res.Message))
		return res.Err
	}

	fmt.Fprintln(a.out, titleStyle.Render(fmt.Sprintf("Welcome to FitClub, %s!", res.User.FirstName)))
	return nil
}

// Login prompts for email and password and signs in. A failed attempt leaves
// the REPL ready for another try.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := a.auth.Login(ctx, email, string(password))
	if !res.Success {
		fmt.Fprintln(a.out, errorStyle.Render("Login failed: "+res.Message))
		return res.Err
	}

	fmt.Fprintln(a.out, titleStyle.Render(fmt.Sprintf("Welcome back, %s!", res.User.FirstName)))
	return nil
}

// Logout ends the session. It never fails; remote revocation errors are
// logged by the controller.
func (a *App) Logout(ctx context.Context) error {
	wasLoggedIn := a.isLoggedIn()

	a.mu.Lock()
	a.loggingOut = true
	a.mu.Unlock()

	a.auth.Logout(ctx)

	a.mu.Lock()
	a.loggingOut = false
	a.mu.Unlock()

	if wasLoggedIn {
		fmt.Fprintln(a.out, "Logged out.")
	} else {
		fmt.Fprintln(a.out, hintStyle.Render("You are not logged in."))
	}
	return nil
}

// Whoami prints the current session state.
func (a *App) Whoami(ctx context.Context) error {
	st := a.session.Current()
	if !st.IsAuthenticated() {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	if st.User == nil {
		fmt.Fprintln(a.out, "Logged in.")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s> (%s)\n", st.User.FullName(), st.User.Email, st.User.Role)
	return nil
}

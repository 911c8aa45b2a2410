package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/scrawlapp/scrawl/internal/client/session"
	"github.com/scrawlapp/scrawl/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for email, password, and display name and creates an
// account. A partial registration (identity created, session not
// established) is reported with a hint to log in instead of re-registering.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	name, err := getSimpleText(a.reader, "Enter display name", os.Stdout)
	if err != nil {
		return err
	}

	err = a.sessions.Register(ctx, email, password, name)
	switch {
	case errors.Is(err, session.ErrPartialRegistration):
		fmt.Printf("Account created, but signing in failed: %v\nTry the 'login' command.\n", err)
		return err
	case errors.Is(err, common.ErrDuplicateIdentity):
		fmt.Println("An account with this email already exists. Try the 'login' command.")
		return err
	case err != nil:
		fmt.Printf("Registration failed: %v\n", err)
		return err
	}

	fmt.Println("Welcome to Scrawl,", name)
	return nil
}

// Login prompts for credentials and authenticates.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	err = a.sessions.Login(ctx, email, password)
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		fmt.Println("Wrong email or password.")
		return err
	case errors.Is(err, common.ErrNetwork):
		fmt.Println("Backend unreachable, try again later.")
		return err
	case err != nil:
		fmt.Printf("Login failed: %v\n", err)
		return err
	}

	fmt.Println("Login successful")
	return nil
}

// Logout ends the session. Local state is Anonymous afterwards even when
// remote termination failed; that case is reported but not fatal.
func (a *App) Logout(ctx context.Context) error {
	err := a.sessions.Logout(ctx)
	if errors.Is(err, session.ErrRemoteLogout) {
		fmt.Println("Logged out locally; the remote session could not be terminated.")
		return err
	}
	if err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

// Edit updates the signed-in user's display name and biography. Pressing
// Enter on the name prompt keeps the current value.
func (a *App) Edit(ctx context.Context) error {
	st := a.sessions.State()
	if !st.Authenticated {
		fmt.Println("Log in first.")
		return nil
	}

	name, err := getSimpleText(a.reader, fmt.Sprintf("Display name [%s]", st.Identity.Name), os.Stdout)
	if err != nil {
		return err
	}
	if name == "" {
		name = st.Identity.Name
	}

	bio, err := getSimpleText(a.reader, "Bio", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.sessions.UpdateProfile(ctx, name, bio); err != nil {
		fmt.Printf("Could not update profile: %v\n", err)
		return err
	}

	fmt.Println("Profile updated")
	return nil
}

// WhoAmI prints the signed-in profile.
func (a *App) WhoAmI(ctx context.Context) error {
	st := a.sessions.State()
	if !st.Authenticated {
		fmt.Println("Not logged in.")
		return nil
	}

	u := st.Identity
	fmt.Printf("%s <%s>\n", u.Name, u.Email)
	if u.Bio != "" {
		fmt.Println(u.Bio)
	}
	fmt.Printf("member since %s\n", u.CreatedAt.Format("2006-01-02"))
	return nil
}

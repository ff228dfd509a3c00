package cli

import "context"

func (a *App) Register(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "-Enter your name")
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "-Enter email")
	if err != nil {
		return err
	}
	password, err := GetPassword()
	if err != nil {
		return err
	}

	if err := a.api.Register(ctx, name, email, string(password)); err != nil {
		printlnFn("Registration failed:", err)
		return err
	}
	printlnFn("Registered. You can now log in.")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "-Enter email")
	if err != nil {
		return err
	}
	password, err := GetPassword()
	if err != nil {
		return err
	}

	if err := a.api.Login(ctx, email, string(password)); err != nil {
		printlnFn("Login failed:", err)
		return err
	}
	a.email = email
	printlnFn("Logged in as", email)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.api.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err)
		return err
	}
	a.email = ""
	printlnFn("Logged out")
	return nil
}

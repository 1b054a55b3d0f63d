package main

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/stockdesk/console/internal/core"
	domainauth "github.com/stockdesk/console/internal/domain/auth"
)

type loginOptions struct {
	Username string
	Password string
	Code     string
	UUID     string
	Query    string
}

func parseLoginFlags(args []string) (loginOptions, error) {
	var opts loginOptions
	fs := newFlagSet("login", &opts.Query)
	fs.StringVar(&opts.Username, "username", "", "Account name")
	fs.StringVar(&opts.Password, "password", "", "Password (prompted when omitted)")
	fs.StringVar(&opts.Code, "code", "", "Captcha answer")
	fs.StringVar(&opts.UUID, "uuid", "", "Captcha challenge id from the captcha command")
	if err := fs.Parse(args); err != nil {
		return loginOptions{}, err
	}
	if strings.TrimSpace(opts.Username) == "" && fs.NArg() > 0 {
		opts.Username = fs.Arg(0)
	}
	if strings.TrimSpace(opts.Username) == "" {
		return loginOptions{}, errors.New("--username is required")
	}
	if (opts.Code == "") != (opts.UUID == "") {
		return loginOptions{}, errors.New("--code and --uuid must be given together")
	}
	return opts, nil
}

func runLogin(cmdCtx *commandContext, args []string) error {
	opts, err := parseLoginFlags(args)
	if err != nil {
		return err
	}
	if opts.Password == "" {
		pw, readErr := readPassword(cmdCtx.In, cmdCtx.Out)
		if readErr != nil {
			return readErr
		}
		opts.Password = pw
	}

	app, err := cmdCtx.App()
	if err != nil {
		return err
	}
	in := domainauth.LoginInput{
		Username: opts.Username,
		Password: opts.Password,
		Code:     opts.Code,
		UUID:     opts.UUID,
	}
	if err := app.Session.Login(cmdCtx.Ctx, in); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if _, err := app.Session.FetchIdentity(cmdCtx.Ctx); err != nil {
		return fmt.Errorf("fetch identity: %w", err)
	}
	id := app.Session.Identity()
	return writef(cmdCtx.Out, "Logged in as %s (%s)\n", id.DisplayName, strings.Join(id.Roles, ", "))
}

// readPassword prompts without echo on a terminal and reads a line otherwise.
func readPassword(in io.Reader, out io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if err := writef(out, "Password: "); err != nil {
			return "", err
		}
		b, err := term.ReadPassword(int(f.Fd()))
		_ = writeln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runLogout(cmdCtx *commandContext, _ []string) error {
	app, err := cmdCtx.App()
	if err != nil {
		return err
	}
	if err := app.Session.Logout(cmdCtx.Ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return writeln(cmdCtx.Out, "Logged out")
}

func runWhoami(cmdCtx *commandContext, args []string) error {
	var query string
	if err := newFlagSet("whoami", &query).Parse(args); err != nil {
		return err
	}
	app, err := cmdCtx.App()
	if err != nil {
		return err
	}
	if _, err := app.Session.FetchIdentity(cmdCtx.Ctx); err != nil {
		return fmt.Errorf("fetch identity: %w", err)
	}
	return printJSON(cmdCtx.Out, app.Session.Identity(), query)
}

type statusView struct {
	State             domainauth.State `json:"state"`
	HasToken          bool             `json:"hasToken"`
	TokenKey          string           `json:"tokenKey"`
	APIBaseURL        string           `json:"apiBaseUrl"`
	AuthMode          string           `json:"authMode"`
	SessionBackend    string           `json:"sessionBackend"`
	PersistentBackend string           `json:"persistentBackend"`
	PersistentReady   bool             `json:"persistentAvailable"`
}

func runStatus(cmdCtx *commandContext, args []string) error {
	var query string
	if err := newFlagSet("status", &query).Parse(args); err != nil {
		return err
	}
	app, err := cmdCtx.App()
	if err != nil {
		return err
	}
	cfg := cmdCtx.Config
	return printJSON(cmdCtx.Out, statusView{
		State:             app.Session.State(),
		HasToken:          !app.Session.Token().IsEmpty(),
		TokenKey:          app.Tokens.Key(),
		APIBaseURL:        app.API.BaseURL(),
		AuthMode:          string(cfg.Auth.Mode),
		SessionBackend:    string(cfg.Storage.SessionBackend),
		PersistentBackend: string(cfg.Storage.PersistentBackend),
		PersistentReady:   app.Cache.Available(core.ScopePersistent),
	}, query)
}

func runToken(cmdCtx *commandContext, _ []string) error {
	app, err := cmdCtx.App()
	if err != nil {
		return err
	}
	tok := app.Session.Token()
	if tok.IsEmpty() {
		return errors.New("not logged in")
	}
	return writeln(cmdCtx.Out, string(tok))
}

func runCaptcha(cmdCtx *commandContext, args []string) error {
	var query, save string
	fs := newFlagSet("captcha", &query)
	fs.StringVar(&save, "save", "", "Write the captcha image to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	app, err := cmdCtx.App()
	if err != nil {
		return err
	}
	c, err := app.Captcha.Captcha(cmdCtx.Ctx)
	if err != nil {
		return fmt.Errorf("captcha: %w", err)
	}
	if save != "" && c.Image != "" {
		img, decErr := base64.StdEncoding.DecodeString(c.Image)
		if decErr != nil {
			return fmt.Errorf("decode captcha image: %w", decErr)
		}
		if err := os.WriteFile(save, img, 0o600); err != nil {
			return fmt.Errorf("write captcha image: %w", err)
		}
		c.Image = ""
	}
	return printJSON(cmdCtx.Out, c, query)
}

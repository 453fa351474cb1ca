package main

import (
	"os"
	"os/exec"
	"runtime"

	"golang.org/x/term"

	"github.com/fiabamia/fiaba/internal/api"
	"github.com/fiabamia/fiaba/internal/config"
	"github.com/fiabamia/fiaba/internal/render"
	"github.com/fiabamia/fiaba/internal/session"
)

// openStore opens the session database, honoring a scripted session id
// override. The caller must Close it.
func openStore() (*session.SQLiteStore, error) {
	cfg := config.Get()
	store, err := session.Open(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	if cfg.SessionID != "" {
		if err := store.UseSessionID(cfg.SessionID); err != nil {
			store.Close()
			return nil, err
		}
	}
	return store, nil
}

func newClient(store session.Store) *api.Client {
	return api.New(config.Get().APIURL, store)
}

func output() *render.Renderer {
	return render.New(pretty)
}

// exitOnError renders the failure with its recovery hint and exits.
func exitOnError(err error) {
	render.Stderr().Println("%s", output().Failure(err))
	os.Exit(1)
}

func isTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// openURL hands a URL to the OS opener, falling back to printing it so
// the user can open it themselves.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		w := render.Stdout()
		w.Println("Open this link in your browser:")
		w.Item("%s", url)
		return
	}
	render.Stdout().Println("Opening %s", url)
}

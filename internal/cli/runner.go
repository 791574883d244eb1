package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/idilsaglam/taskdeck/internal/api"
	"github.com/idilsaglam/taskdeck/internal/cache"
	"github.com/idilsaglam/taskdeck/internal/config"
	"github.com/idilsaglam/taskdeck/internal/filter"
	"github.com/idilsaglam/taskdeck/internal/model"
	"github.com/idilsaglam/taskdeck/internal/session"
	"github.com/idilsaglam/taskdeck/internal/tui"
	"github.com/idilsaglam/taskdeck/internal/ui"
)

// Options tune behavior from root flags.
type Options struct {
	APIURL string // overrides TASKDECK_API_URL when non-empty
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	cfg := config.Load()
	if opt.APIURL != "" {
		cfg.APIURL = opt.APIURL
	}
	client := api.New(cfg.APIURL, cfg.Timeout)

	store, err := session.NewFileStore()
	if err != nil {
		ui.Fail("credentials store: " + err.Error())
		return 1
	}
	gate := session.NewGate(store)

	if len(args) == 0 {
		args = []string{"ui"}
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ui":
		return doUI(gate, client)

	case "login":
		return doLogin(gate, client)

	case "signup":
		return doSignup(gate, client)

	case "logout":
		return doLogout(gate)

	case "whoami":
		return doWhoAmI(gate)

	case "projects":
		return doProjects(gate, client)

	case "tasks":
		return doTasks(gate, client, a)
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`taskdeck - project/task tracker client

Usage:
  taskdeck [flags] <subcommand> [args]

Subcommands:
  ui                 Interactive screens (default)
  login              Sign in and store the session
  signup             Create an account and store the session
  logout             Drop the stored session
  whoami             Show the signed-in identity and token details
  projects           List projects
  tasks              List tasks (-project <id|all> -status <status|all>)

Examples:
  taskdeck login
  taskdeck tasks -status in-progress
  taskdeck ui
`)
}

// ---------------------------------------------------
// Auth subcommands
// ---------------------------------------------------

func doLogin(gate *session.Gate, client *api.Client) int {
	email, err := promptLine("Email: ")
	if err != nil {
		ui.Fail("read email: " + err.Error())
		return 1
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		ui.Fail("read password: " + err.Error())
		return 1
	}

	token, user, err := client.Login(context.Background(), email, password)
	if err != nil {
		ui.Fail("login: " + err.Error())
		return 1
	}
	if err := gate.Establish(token, user.Name); err != nil {
		ui.Fail("save session: " + err.Error())
		return 1
	}
	ui.OK("logged in as " + user.Name)
	return 0
}

func doSignup(gate *session.Gate, client *api.Client) int {
	name, err := promptLine("Name: ")
	if err != nil {
		ui.Fail("read name: " + err.Error())
		return 1
	}
	email, err := promptLine("Email: ")
	if err != nil {
		ui.Fail("read email: " + err.Error())
		return 1
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		ui.Fail("read password: " + err.Error())
		return 1
	}

	token, user, err := client.Signup(context.Background(), name, email, password)
	if err != nil {
		ui.Fail("signup: " + err.Error())
		return 1
	}
	if err := gate.Establish(token, user.Name); err != nil {
		ui.Fail("save session: " + err.Error())
		return 1
	}
	ui.OK("account created, logged in as " + user.Name)
	return 0
}

func doLogout(gate *session.Gate) int {
	if !gate.HasSession() {
		ui.OK("not logged in (nothing to do)")
		return 0
	}
	if err := gate.Clear(); err != nil {
		ui.Fail("logout: " + err.Error())
		return 1
	}
	ui.OK("logged out")
	return 0
}

func doWhoAmI(gate *session.Gate) int {
	if !gate.HasSession() {
		fmt.Println(ui.MutedStyle.Render("not logged in"))
		fmt.Println("Run: taskdeck login")
		return 0
	}
	fmt.Printf("identity: %s\n", gate.Identity())
	fmt.Printf("source: %s\n", gate.Source())
	if info := gate.Info(); info != nil && !info.CreatedAt.IsZero() {
		fmt.Printf("since: %s\n", info.CreatedAt.UTC().Format(time.RFC3339))
	}
	if d, ok := session.Introspect(gate.Token()); ok {
		if d.Subject != "" {
			fmt.Printf("subject: %s\n", d.Subject)
		}
		if d.ExpiresAt != nil {
			fmt.Printf("expires: %s\n", d.ExpiresAt.UTC().Format(time.RFC3339))
		} else {
			fmt.Println("expires: (none in token)")
		}
	} else {
		fmt.Println("token: opaque (cannot introspect locally)")
	}
	return 0
}

// ---------------------------------------------------
// Listing subcommands
// ---------------------------------------------------

func doProjects(gate *session.Gate, client *api.Client) int {
	token, code := ensureAuth(gate)
	if code != 0 {
		return code
	}

	col := cache.New("projects", func(ctx context.Context) ([]model.Project, error) {
		return client.ListProjects(ctx, token)
	})
	if err := col.Refresh(context.Background()); err != nil {
		ui.Fail("load projects: " + err.Error())
		return 1
	}

	projects := col.List()
	lines := []string{ui.TitleStyle.Render("Projects") + ui.MutedStyle.Render(fmt.Sprintf("  %d total", len(projects))), ""}
	if len(projects) == 0 {
		lines = append(lines, ui.MutedStyle.Render("no projects yet"))
	}
	for _, p := range projects {
		noun := "tasks"
		if p.TaskCount == 1 {
			noun = "task"
		}
		lines = append(lines, fmt.Sprintf("%s %s  %s",
			ui.Badge(string(p.Status), p.Status.Display()),
			p.Title,
			ui.MutedStyle.Render(fmt.Sprintf("%d %s · created %s", p.TaskCount, noun, model.ShortDate(p.CreatedAt))),
		))
	}
	ui.Panel(lines)
	return 0
}

func doTasks(gate *session.Gate, client *api.Client, args []string) int {
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	projectFilter := fs.String("project", filter.All, "project id to filter by, or 'all'")
	statusFilter := fs.String("status", filter.All, "task status to filter by, or 'all'")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	token, code := ensureAuth(gate)
	if code != 0 {
		return code
	}

	projCol := cache.New("projects", func(ctx context.Context) ([]model.Project, error) {
		return client.ListProjects(ctx, token)
	})
	taskCol := cache.New("tasks", func(ctx context.Context) ([]model.Task, error) {
		return client.ListTasks(ctx, token)
	})
	if err := projCol.Refresh(context.Background()); err != nil {
		ui.Fail("load projects: " + err.Error())
		return 1
	}
	if err := taskCol.Refresh(context.Background()); err != nil {
		ui.Fail("load tasks: " + err.Error())
		return 1
	}

	titleByID := map[string]string{}
	for _, p := range projCol.List() {
		titleByID[p.ID] = p.Title
	}

	visible := filter.Visible(taskCol.List(), *projectFilter, *statusFilter)
	lines := []string{ui.TitleStyle.Render("Tasks") + ui.MutedStyle.Render(fmt.Sprintf("  %d shown / %d total", len(visible), len(taskCol.List()))), ""}
	if len(visible) == 0 {
		lines = append(lines, ui.MutedStyle.Render("no tasks match"))
	}
	for _, t := range visible {
		proj, ok := titleByID[t.ProjectID]
		if !ok {
			proj = "(no project)"
		}
		lines = append(lines, fmt.Sprintf("%s %s  %s",
			ui.Badge(string(t.Status), t.Status.Display()),
			t.Title,
			ui.MutedStyle.Render(fmt.Sprintf("%s · due %s", proj, model.ShortDate(t.DueDate))),
		))
	}
	ui.Panel(lines)
	return 0
}

func doUI(gate *session.Gate, client *api.Client) int {
	// no auth check here: the program opens on its login screen when no
	// session exists
	if err := tui.Run(gate, client); err != nil {
		ui.Fail("ui: " + err.Error())
		return 1
	}
	return 0
}

// ---------------------------------------------------
// helpers
// ---------------------------------------------------

// ensureAuth gates every networked command: no credential, no request.
func ensureAuth(gate *session.Gate) (string, int) {
	if !gate.HasSession() {
		ui.Fail("not logged in. Run `taskdeck login` (or set TASKDECK_TOKEN and TASKDECK_USER)")
		return "", 2
	}
	return gate.Token(), 0
}

func promptLine(label string) (string, error) {
	fmt.Print(label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

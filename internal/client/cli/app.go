package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"slices"
	"sync"

	"github.com/dmitrijs2005/dsatracker/internal/client/client"
	"github.com/dmitrijs2005/dsatracker/internal/client/config"
	"github.com/dmitrijs2005/dsatracker/internal/client/gateway"
	"github.com/dmitrijs2005/dsatracker/internal/client/provider"
	"github.com/dmitrijs2005/dsatracker/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/dsatracker/internal/client/services"
	"github.com/dmitrijs2005/dsatracker/internal/client/session"
	"github.com/dmitrijs2005/dsatracker/internal/client/storage"
	"github.com/dmitrijs2005/dsatracker/internal/logging"
)

// Surfaces the CLI can be on. login and register are public.
const (
	SurfaceLoading   = ""
	SurfaceLogin     = "login"
	SurfaceRegister  = "register"
	SurfaceDashboard = "dashboard"
)

const (
	MsgSessionExpired = "Session expired, please sign in again"
	MsgPleaseSignIn   = "Please sign in"
)

type App struct {
	config    *config.Config
	log       logging.Logger
	db        *sql.DB
	store     *session.Store
	auth      services.AuthService
	questions services.QuestionService
	reader    *bufio.Reader
	out       io.Writer

	mu      sync.Mutex
	surface string
	status  string

	unsubscribe func()
}

// NewApp opens the local database and wires providers, the request
// gateway, the API client and the services. The caller must Close the App.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	db, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	a, err := newApp(ctx, cfg, log, db, http.DefaultTransport)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	a.reader = bufio.NewReader(in)
	a.out = out
	return a, nil
}

func newApp(ctx context.Context, cfg *config.Config, log logging.Logger, db *sql.DB, base http.RoundTripper) (*App, error) {
	repo := metadata.NewSQLiteRepository(db)

	jar, err := provider.NewJar(cfg.APIBaseURL, cfg.AuthCookieName, repo, log)
	if err != nil {
		return nil, err
	}
	chain, err := provider.NewChainByName(cfg.Providers,
		provider.NewStorageProvider(repo),
		provider.NewCookieProvider(jar),
	)
	if err != nil {
		return nil, err
	}

	hc := &http.Client{Timeout: cfg.RequestTimeout}
	if slices.Contains(cfg.Providers, provider.CookieName) {
		if err := jar.Load(ctx); err != nil {
			return nil, fmt.Errorf("load cookies: %w", err)
		}
		hc.Jar = jar
	}

	tr := gateway.NewTransport(base, chain, log, gateway.Options{
		SignInSurface:  SurfaceLogin,
		PublicSurfaces: []string{SurfaceRegister},
	})
	hc.Transport = tr

	api, err := client.NewRESTClient(cfg.APIBaseURL, hc)
	if err != nil {
		return nil, err
	}

	store := session.NewStore()
	auth := services.NewAuthService(api, provider.NewIdentityStore(db, repo, chain), store, log)

	a := &App{
		config:    cfg,
		log:       log,
		db:        db,
		store:     store,
		auth:      auth,
		questions: services.NewQuestionService(api),
		surface:   SurfaceLoading,
		status:    "(loading)",
	}
	tr.SetNavigator(a)
	tr.OnRejected(auth.Teardown)
	a.unsubscribe = store.Subscribe(a.onSession)
	return a, nil
}

func (a *App) Close() error {
	a.unsubscribe()
	return a.db.Close()
}

// Auth exposes the auth service for one-shot commands.
func (a *App) Auth() services.AuthService {
	return a.auth
}

// Run validates the stored session and then runs the REPL until the user
// exits.
func (a *App) Run(ctx context.Context) {
	a.println("Welcome to dsatracker (type 'help' for commands)")
	a.Start(ctx)
	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

// Start settles the initial session and lands on the matching surface.
func (a *App) Start(ctx context.Context) session.State {
	state, err := a.auth.Validate(ctx)
	if err != nil {
		a.log.Debug(ctx, "stored session not restored", "error", err)
	}

	if state.Authenticated {
		a.navigate(SurfaceDashboard)
		a.println("Signed in as", state.Username)
		return state
	}
	// A rejected probe may already have redirected.
	if a.Current() != SurfaceLogin {
		a.Redirect(SurfaceLogin, reasonFor(state))
	}
	return state
}

func reasonFor(s session.State) string {
	if s.Expired {
		return gateway.ReasonExpired
	}
	return gateway.ReasonSignIn
}

// Current implements gateway.Navigator.
func (a *App) Current() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.surface
}

// Redirect implements gateway.Navigator.
func (a *App) Redirect(surface, reason string) {
	a.navigate(surface)
	if reason == gateway.ReasonExpired {
		a.println(MsgSessionExpired)
	} else {
		a.println(MsgPleaseSignIn)
	}
}

func (a *App) navigate(surface string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.surface = surface
}

func (a *App) onSession(s session.State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch {
	case s.Loading:
		a.status = "(loading)"
	case s.Authenticated:
		a.status = "(" + s.Username + ")"
		a.surface = SurfaceDashboard
	default:
		a.status = ""
	}
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *App) isLoggedIn() bool {
	return a.store.Snapshot().Authenticated
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

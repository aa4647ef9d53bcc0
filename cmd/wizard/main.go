package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/wod-character-wizard/internal/config"
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/catalog"
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/sequencer"
	dnderr "github.com/KirkDiggler/wod-character-wizard/internal/errors"
	"github.com/KirkDiggler/wod-character-wizard/internal/repositories/snapshots"
	"github.com/KirkDiggler/wod-character-wizard/internal/services"
	"github.com/KirkDiggler/wod-character-wizard/internal/services/wizard"
	"github.com/KirkDiggler/wod-character-wizard/internal/sheet"
)

const usage = `usage: wizard <command> [arguments]

file commands:
  validate FILE...   migrate and validate character files
  migrate FILE       print the migrated document
  steps FILE         print the stepper for a character file
  budgets FILE       check merit, flaw, background and gift budgets
  export FILE        fill the character sheet and print the fields

session commands:
  new                start a session
  list               list sessions
  show ID            print the session and its current screen
  load ID FILE       replace the session character with a file
  next ID            advance one step
  back ID            go back one step
  jump ID STEP       jump to a step if it is unlocked
  reset ID           start the session over
  delete ID          remove the session
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	mapping, err := sheet.LoadMapping(cfg.Sheet.Variant)
	if err != nil {
		log.Fatalf("Failed to load sheet mapping: %v", err)
	}
	sheetOptions := []sheet.Option{sheet.WithMapping(mapping)}
	if cfg.Sheet.Font != "" {
		sheetOptions = append(sheetOptions, sheet.WithFont(cfg.Sheet.Font))
	}

	ctx := context.Background()
	cmd, rest := args[0], args[1:]

	if run, ok := fileCommands[cmd]; ok {
		if err := run(catalog.Default(), sheetOptions, rest); err != nil {
			fail(err)
		}
		return
	}

	run, ok := sessionCommands[cmd]
	if !ok {
		flag.Usage()
		os.Exit(2)
	}

	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open snapshot store: %v", err)
	}
	defer closeStore()

	provider := services.NewProvider(&services.ProviderConfig{
		SnapshotRepository: repo,
		SheetOptions:       sheetOptions,
	})
	if err := run(ctx, provider.WizardService, rest); err != nil {
		closeStore()
		fail(err)
	}
}

type fileCommand func(cat *catalog.Catalog, opts []sheet.Option, args []string) error

var fileCommands = map[string]fileCommand{
	"validate": validateFiles,
	"migrate":  migrateFile,
	"steps":    stepsFile,
	"budgets":  budgetsFile,
	"export":   exportFile,
}

type sessionCommand func(ctx context.Context, svc wizard.Service, args []string) error

var sessionCommands = map[string]sessionCommand{
	"new": func(ctx context.Context, svc wizard.Service, args []string) error {
		session, err := svc.Start(ctx)
		if err != nil {
			return err
		}
		return printSession(session)
	},
	"list": func(ctx context.Context, svc wizard.Service, args []string) error {
		list, err := svc.List(ctx)
		if err != nil {
			return err
		}
		return printJSON(list)
	},
	"show": withID(func(ctx context.Context, svc wizard.Service, id string, args []string) error {
		session, err := svc.Get(ctx, id)
		if err != nil {
			return err
		}
		return printSession(session)
	}),
	"load": withID(func(ctx context.Context, svc wizard.Service, id string, args []string) error {
		if len(args) != 1 {
			return dnderr.InvalidArgument("load needs a character file")
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		session, err := svc.Load(ctx, id, data)
		if err != nil {
			return err
		}
		return printSession(session)
	}),
	"next": withID(func(ctx context.Context, svc wizard.Service, id string, args []string) error {
		session, err := svc.Advance(ctx, id)
		if err != nil {
			return err
		}
		return printSession(session)
	}),
	"back": withID(func(ctx context.Context, svc wizard.Service, id string, args []string) error {
		session, err := svc.Back(ctx, id)
		if err != nil {
			return err
		}
		return printSession(session)
	}),
	"jump": withID(func(ctx context.Context, svc wizard.Service, id string, args []string) error {
		if len(args) != 1 {
			return dnderr.InvalidArgument("jump needs a step number")
		}
		target, err := strconv.Atoi(args[0])
		if err != nil {
			return dnderr.InvalidArgumentf("step %q is not a number", args[0])
		}
		session, err := svc.JumpTo(ctx, id, target)
		if err != nil {
			return err
		}
		if session.Step != target {
			log.Printf("Step %d is locked; staying on step %d", target, session.Step)
		}
		return printSession(session)
	}),
	"reset": withID(func(ctx context.Context, svc wizard.Service, id string, args []string) error {
		session, err := svc.Reset(ctx, id)
		if err != nil {
			return err
		}
		return printSession(session)
	}),
	"delete": withID(func(ctx context.Context, svc wizard.Service, id string, args []string) error {
		if err := svc.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Deleted session %s\n", id)
		return nil
	}),
}

func withID(fn func(ctx context.Context, svc wizard.Service, id string, args []string) error) sessionCommand {
	return func(ctx context.Context, svc wizard.Service, args []string) error {
		if len(args) == 0 {
			return dnderr.InvalidArgument("session ID is required")
		}
		return fn(ctx, svc, args[0], args[1:])
	}
}

// openStore builds the configured snapshot repository. A Redis store that
// cannot be reached falls back to memory.
func openStore(ctx context.Context, cfg *config.Config) (snapshots.Repository, func(), error) {
	noop := func() {}

	switch cfg.Store {
	case config.StoreSQLite:
		repo, err := snapshots.OpenSQLite(cfg.SQLite.Path, nil)
		if err != nil {
			return nil, noop, err
		}
		return repo, func() {
			if err := repo.Close(); err != nil {
				log.Printf("Error closing SQLite database: %v", err)
			}
		}, nil

	case config.StoreRedis:
		client, err := redisClient(cfg.Redis)
		if err != nil {
			log.Printf("Failed to parse Redis URL: %v", err)
			log.Println("Falling back to in-memory snapshots")
			return snapshots.NewInMemoryRepository(nil), noop, nil
		}

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			log.Printf("Failed to connect to Redis: %v", err)
			log.Println("Falling back to in-memory snapshots")
			return snapshots.NewInMemoryRepository(nil), noop, nil
		}

		repo := snapshots.NewRedisRepository(&snapshots.RedisRepoConfig{
			Client: client,
			TTL:    cfg.SnapshotTTL,
		})
		return repo, func() {
			if err := client.Close(); err != nil {
				log.Printf("Error closing Redis connection: %v", err)
			}
		}, nil
	}

	log.Println("Using in-memory snapshots; sessions end with the process")
	return snapshots.NewInMemoryRepository(nil), noop, nil
}

func redisClient(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, err
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}), nil
}

type sessionView struct {
	ID        string               `json:"id"`
	Step      int                  `json:"step"`
	Screen    sequencer.Screen     `json:"screen"`
	Steps     []sequencer.StepInfo `json:"steps"`
	Character any                  `json:"character"`
	UpdatedAt time.Time            `json:"updated_at"`
}

func printSession(session *wizard.Session) error {
	screen, err := session.Screen()
	if err != nil {
		return err
	}
	return printJSON(sessionView{
		ID:        session.ID,
		Step:      session.Step,
		Screen:    screen,
		Steps:     sequencer.Steps(session.Character),
		Character: session.Character,
		UpdatedAt: session.UpdatedAt,
	})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// fail prints err, with every schema violation on its own line, and exits
func fail(err error) {
	fmt.Fprintf(os.Stderr, "error [%s]: %v\n", dnderr.GetCode(err), err)
	for _, v := range dnderr.Violations(err) {
		fmt.Fprintf(os.Stderr, "  %s\n", v)
	}
	os.Exit(exitCode(err))
}

// exitCode is 2 for bad usage and 1 for everything else
func exitCode(err error) int {
	if dnderr.GetCode(err) == dnderr.CodeInvalidArgument {
		return 2
	}
	return 1
}

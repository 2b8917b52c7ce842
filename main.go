package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/code19m/errx"
	"github.com/rise-and-shine/docrepo/cache"
	"github.com/rise-and-shine/docrepo/cache/memcache"
	"github.com/rise-and-shine/docrepo/cache/rediscache"
	"github.com/rise-and-shine/docrepo/cachedstore"
	"github.com/rise-and-shine/docrepo/cfgloader"
	"github.com/rise-and-shine/docrepo/changefeed"
	"github.com/rise-and-shine/docrepo/instrumented"
	"github.com/rise-and-shine/docrepo/logger"
	"github.com/rise-and-shine/docrepo/pg"
	"github.com/rise-and-shine/docrepo/pgstore"
	"github.com/rise-and-shine/docrepo/query"
	"github.com/rise-and-shine/docrepo/repogen"
	"github.com/rise-and-shine/docrepo/tracing"
)

const (
	serviceName    = "docrepo-demo"
	serviceVersion = "0.1.0"
)

type Config struct {
	Logger   logger.Config  `yaml:"logger"`
	Tracing  tracing.Config `yaml:"tracing"`
	Postgres pg.Config      `yaml:"postgres"`

	Cache struct {
		// Backend is "memory" or "redis".
		Backend string             `yaml:"backend" default:"memory" validate:"oneof=memory redis"`
		Redis   *rediscache.Config `yaml:"redis"   validate:"required_if=Backend redis"`
	} `yaml:"cache"`

	// Kafka receives the change feed. Without it events stay in process.
	Kafka *changefeed.KafkaConfig `yaml:"kafka"`
}

// Note is the entity the demo stores.
type Note struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Body  string   `json:"body,omitempty"`
	Views int      `json:"views"`
	Tags  []string `json:"tags,omitempty"`
}

func (n Note) GetID() string { return n.ID }

func main() {
	cfg := cfgloader.MustLoad[Config]()

	log, err := logger.New(cfg.Logger)
	if err != nil {
		panic(err)
	}
	logger.SetGlobal(log)
	defer func() { _ = logger.Sync() }()

	shutdown, err := tracing.InitGlobalTracer(cfg.Tracing, serviceName, serviceVersion)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = shutdown() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, cfg, log); err != nil {
		log.Errorx(err)
	}
}

func run(ctx context.Context, cfg Config, log logger.Logger) error {
	db, err := pg.Connect(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := pgstore.Open[Note](ctx, db, "notes", pgstore.WithSchema(cfg.Postgres.Schema))
	if err != nil {
		return err
	}

	c, closeCache := newCache(cfg)
	defer closeCache()

	publisher, err := newPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer publisher.Close()

	repo := repogen.NewWriteRepository[Note](
		changefeed.New[Note](
			instrumented.New[Note](
				cachedstore.New[Note](store, c),
			),
			publisher,
		),
	)

	return session(ctx, repo, log)
}

func newCache(cfg Config) (cache.Cache, func()) {
	if cfg.Cache.Backend != "redis" {
		return memcache.New(0), func() {}
	}
	client := rediscache.NewClient(*cfg.Cache.Redis)
	return rediscache.New(client, *cfg.Cache.Redis), func() { _ = client.Close() }
}

func newPublisher(cfg Config, log logger.Logger) (message.Publisher, error) {
	if cfg.Kafka != nil {
		return changefeed.NewKafkaPublisher(*cfg.Kafka, log)
	}
	return gochannel.NewGoChannel(gochannel.Config{}, changefeed.NewLoggerAdapter(log.Named("changefeed"))), nil
}

// session runs a short insert, find, update and delete round through the repository.
func session(ctx context.Context, repo *repogen.WriteRepository[Note], log logger.Logger) error {
	notes := []Note{
		{Title: "a", Tags: []string{"demo"}},
		{Title: "b", Tags: []string{"demo"}},
		{Title: "c"},
	}
	if err := repo.InsertMany(ctx, notes); err != nil {
		return err
	}

	f := repo.Filter()
	latest, err := repo.FindAllOrdered(ctx, "title", 0, 2)
	if err != nil {
		return err
	}
	log.With("titles", titles(latest)).Info("latest notes")

	if _, err = repo.UpdateMatching(ctx, f.Exists("tags"), query.Inc("views", 1)); err != nil {
		return err
	}

	got, err := repo.Get(ctx, notes[0].ID)
	if err != nil {
		return err
	}
	if got == nil {
		return errx.New("inserted note is missing", errx.WithDetails(errx.D{"id": notes[0].ID}))
	}
	log.With("id", got.ID, "views", got.Views).Info("note after update")

	if err = repo.DeleteMatching(ctx, f.In("title", "a", "b", "c")); err != nil {
		return err
	}

	left, err := repo.Any(ctx, f.All())
	if err != nil {
		return err
	}
	log.With("any_left", left).Info("demo finished")
	return nil
}

func titles(notes []Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Title)
	}
	return out
}

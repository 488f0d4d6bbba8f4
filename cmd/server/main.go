package main

import (
	"context"
	"flag"
	"log/syslog"
	"os"
	"os/signal"
	"time"

	"github.com/buzkaaclicker/avatars"
	"github.com/buzkaaclicker/avatars/config"
	"github.com/buzkaaclicker/avatars/inmem"
	"github.com/buzkaaclicker/avatars/mailer"
	"github.com/buzkaaclicker/avatars/persistent"
	"github.com/buzkaaclicker/avatars/rabbitmq"
	"github.com/buzkaaclicker/avatars/reqres"
	"github.com/buzkaaclicker/avatars/transport/rest"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	logrusys "github.com/sirupsen/logrus/hooks/syslog"
	"github.com/tidwall/buntdb"
)

type services struct {
	profiles  avatars.ProfileProvider
	records   avatars.AvatarRecordStore
	blobs     avatars.AvatarBlobStore
	users     avatars.UserStore
	publisher avatars.Publisher
	mailer    avatars.Mailer
}

func newServer(cfg config.Config, s services) *fiber.App {
	orchestrator := &avatars.Orchestrator{
		Profiles:     s.profiles,
		Records:      s.records,
		Blobs:        s.blobs,
		ScopedLookup: cfg.Avatar.ScopedLookup,
	}
	avatarController := rest.AvatarController{Orchestrator: orchestrator}
	userController := rest.UserController{Profiles: s.profiles}
	usersController := rest.UsersController{
		Store:     s.users,
		Publisher: s.publisher,
		Mailer:    s.mailer,
		MailFrom:  cfg.Mail.From,
		MailTo:    cfg.Mail.To,
	}

	server := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: rest.ErrorHandler,
	})
	server.Use(recover.New())
	server.Use(rest.LogHandler())
	server.Use(cors.New(cors.Config{AllowOrigins: cfg.Http.AllowOrigins}))

	server.Get("/api/status", monitor.New())
	avatarController.InstallTo(server)
	userController.InstallTo(server)
	usersController.InstallTo(server)

	server.Use(rest.NotFoundHandler)
	return server
}

func setupLogger(verbose bool, useSyslog bool) {
	logrus.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: time.Stamp,
		FullTimestamp:   true,
	})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if !useSyslog {
		return
	}

	syslogHook, err := logrusys.NewSyslogHook("", "", syslog.LOG_USER, "avatars")
	if err != nil {
		logrus.WithError(err).Fatalln("Could not create syslog hook.")
		return
	}
	logrus.AddHook(syslogHook)
}

// openRecordStore returns the avatar record store and user store of the
// configured backend. Users are registered in memory with the buntdb backend.
func openRecordStore(ctx context.Context, cfg config.Config) (avatars.AvatarRecordStore, avatars.UserStore, func()) {
	switch cfg.Record.Backend {
	case config.RecordBackendBuntdb:
		bdb, err := buntdb.Open(cfg.Buntdb.Path)
		if err != nil {
			logrus.WithError(err).Fatalln("Could not open buntdb.")
		}
		records := &persistent.BuntAvatarRecordStore{Buntdb: bdb}
		if err := records.CreateIndexes(); err != nil {
			logrus.WithError(err).Fatalln("Could not create buntdb indexes.")
		}
		logrus.Warningln("Users are kept in memory with the buntdb record backend.")
		users := inmem.NewUserStore()
		return records, &users, func() { _ = bdb.Close() }
	default:
		logrus.Infoln("Opening database.")
		pg := persistent.PgOpen(ctx, cfg.Postgres.Dsn)
		if err := persistent.CreateSchema(ctx, pg); err != nil {
			logrus.WithError(err).Fatalln("Could not create database schema.")
		}
		return &persistent.AvatarRecordStore{DB: pg}, &persistent.UserStore{DB: pg}, func() { _ = pg.Close() }
	}
}

func openPublisher(cfg config.Config) (avatars.Publisher, func()) {
	if cfg.RabbitMQ.Url == "" {
		logrus.Warningln("RABBITMQ_URL not set, messages are kept in memory.")
		return &inmem.Publisher{}, func() {}
	}
	publisher, err := rabbitmq.Dial(cfg.RabbitMQ.Url, cfg.RabbitMQ.Queue)
	if err != nil {
		logrus.WithError(err).Fatalln("Could not connect to rabbitmq.")
	}
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logrus.WithError(err).Warningln("Could not close rabbitmq connection.")
		}
	}
}

func newMailer(cfg config.Config) avatars.Mailer {
	if cfg.Smtp.Host == "" {
		logrus.Warningln("SMTP_HOST not set, mails are kept in memory.")
		return &inmem.Mailer{}
	}
	return &mailer.SMTPMailer{
		Host:     cfg.Smtp.Host,
		Port:     cfg.Smtp.Port,
		Username: cfg.Smtp.Username,
		Password: cfg.Smtp.Password,
		TLS:      cfg.Smtp.Tls,
		Timeout:  cfg.Remote.Timeout,
	}
}

func awaitInterruption() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
}

func main() {
	configPath := flag.String("config", "", "directory containing config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatalln("Could not load config.")
	}
	setupLogger(cfg.Debug, cfg.Log.Syslog)
	logrus.Infoln("Starting avatars.")

	ctx := context.Background()
	records, users, closeRecords := openRecordStore(ctx, cfg)
	defer closeRecords()
	publisher, closePublisher := openPublisher(cfg)
	defer closePublisher()

	client := reqres.Client{
		BaseUrl: cfg.Remote.BaseUrl,
		ApiKey:  cfg.Remote.ApiKey,
		Timeout: cfg.Remote.Timeout,
	}
	server := newServer(cfg, services{
		profiles:  client,
		records:   records,
		blobs:     &persistent.FileBlobStore{Root: cfg.Storage.Root, Download: client.DownloadImage},
		users:     users,
		publisher: publisher,
		mailer:    newMailer(cfg),
	})

	logrus.WithField("addr", cfg.Http.Addr).Infoln("Starting listening... To shut down use ^C")
	go func() {
		if err := server.Listen(cfg.Http.Addr); err != nil {
			logrus.WithError(err).Fatalln("Could not listen.")
		}
	}()

	awaitInterruption()

	logrus.Infoln("Shutting down...")
	if err := server.Shutdown(); err != nil {
		logrus.WithError(err).Warningln("Fiber shutdown failed.")
	}
}

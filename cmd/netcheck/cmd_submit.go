package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"netcheck/pkg/localdb"
	"netcheck/pkg/model"
	"netcheck/pkg/relay"
	"netcheck/pkg/screen"
)

var (
	submitAnswers string
	submitNoRelay bool
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Fill in the checklist from an answers file and save it",
	Long: `Applies an answers file to a fresh checklist, validates that every service
has a comment and appends one row per service to the local database.

When a controller URL is configured and a session exists the saved batch is
also sent to the controller. A failed send does not undo the local save.

Answers file:
  answers:
    - task: "2"
      service: "Services: Ping Response Range"
      state: OK
      comment: "6ms"`,
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVarP(&submitAnswers, "answers", "a", "", "answers YAML file")
	submitCmd.Flags().BoolVar(&submitNoRelay, "no-relay", false, "save locally only")
	_ = submitCmd.MarkFlagRequired("answers")
}

// lazyRelay dials the controller on first use so that connection problems
// surface as relay errors after the local save.
type lazyRelay struct {
	once       sync.Once
	client     *relay.Client
	err        error
	controller string
	token      string
	deviceID   string
	log        *zap.Logger
}

func (l *lazyRelay) Publish(ctx context.Context, entries []model.Entry) (string, error) {
	l.once.Do(func() {
		l.client, l.err = relay.Dial(ctx, l.controller, l.token, l.deviceID, l.log)
	})
	if l.err != nil {
		return "", l.err
	}
	return l.client.Publish(ctx, entries)
}

func (l *lazyRelay) Close() {
	if l.client != nil {
		_ = l.client.Close()
	}
}

func runSubmit(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	answers, err := loadAnswers(submitAnswers)
	if err != nil {
		return err
	}
	db, err := localdb.Open(ctx, cfg.DBPath, localdb.WithLogger(logger.Named("localdb")))
	if db != nil {
		defer db.Close()
	}
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), screen.AlertFor(err))
		return err
	}

	opts := []screen.FormOption{screen.WithFormLogger(logger.Named("form"))}
	if !submitNoRelay && cfg.ControllerURL != "" {
		sess, ok, err := loadSession(cfg.SessionPath())
		switch {
		case err != nil:
			logger.Warn("session unreadable; not relaying", zap.Error(err))
		case !ok || sess.Token == "":
			logger.Info("no session token; not relaying")
		default:
			lr := &lazyRelay{controller: cfg.ControllerURL, token: sess.Token, deviceID: cfg.DeviceID, log: logger.Named("relay")}
			defer lr.Close()
			opts = append(opts, screen.WithPublisher(lr))
		}
	}

	f := screen.NewFormScreen(db, opts...)
	if err := applyAnswers(f, answers); err != nil {
		return err
	}
	res, err := f.Submit(ctx)
	fmt.Fprintln(cmd.OutOrStdout(), res.Alert)
	if err != nil {
		return err
	}
	logger.Info("checklist submitted", zap.Int("rows", res.Saved), zap.String("submission", res.SubmissionID))
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/rubpy/crawly"
	"github.com/rubpy/crawly/clog"

	cyoutube "github.com/rubpy/crawly-search-youtube"
	"github.com/rubpy/crawly-search-youtube/metrics"
	"github.com/rubpy/crawly-search-youtube/trend"
)

//////////////////////////////////////////////////

var testHandles = []cyoutube.Handle{
	cyoutube.SearchTerms("lofi hip hop"),
	cyoutube.ChannelURL("https://www.youtube.com/@LofiGirl"),
}

var (
	/* NOTE: optional; without a key, channel profiles are read off their pages. */
	youtubeAPIKey = ""

	trendTerms = "lofi hip hop"
	trendLimit = 10

	metricsAddr = "127.0.0.1:9464"
)

const logHeader = "[example] "

var sessionSettings = crawly.SessionSettings{
	Interval:          2 * time.Minute,
	SinglePassTimeout: 5 * time.Minute,

	Paused:    false,
	PauseIdle: false,
}

var crawlerSettings = cyoutube.DefaultSettings

//////////////////////////////////////////////////

func main() {
	ctx := context.Background()

	logFile := os.Stdout
	logger := slog.New(
		tint.NewHandler(logFile, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.DateTime,
		}),
	)

	reg := prometheus.NewRegistry()
	go func() {
		if err := http.ListenAndServe(metricsAddr, metrics.Handler(reg)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(logHeader+"metrics server", slog.Any("error", err))
		}
	}()

	opts := []cyoutube.ConfigOption{
		cyoutube.WithLogger(logger),
		cyoutube.WithMetrics(metrics.New(reg)),
		cyoutube.WithSettings(crawlerSettings),
	}
	if youtubeAPIKey != "" {
		srv, err := youtube.NewService(ctx, option.WithAPIKey(youtubeAPIKey))
		if err != nil {
			panic(fmt.Errorf("youtube.NewService: %w", err))
		}

		opts = append(opts, cyoutube.WithService(srv))
	}

	cr, err := cyoutube.NewCrawler(opts...)
	if err != nil {
		panic(fmt.Errorf("cyoutube.NewCrawler: %w", err))
	}

	printTrend(ctx, cr)

	for _, handle := range testHandles {
		if _, err := cr.Track(ctx, handle); err != nil {
			panic(fmt.Errorf("cyoutube.Track: %w", err))
		}
	}

	go func(ctx context.Context, cr *cyoutube.Crawler) {
		l := cr.Listen()
		defer l.Discard()

		ch := l.Channel()
		for {
			select {
			case <-ctx.Done():
				return

			case result, ok := <-ch:
				if !ok {
					// Result channel has been closed.

					return
				}

				orders := map[crawly.Handle]string{}
				newChannels := map[crawly.Handle][]string{}
				subscribers := map[crawly.Handle]string{}
				for _, tr := range result.Orders {
					order := tr.Order.Value

					orders[order.Handle] = order.Command.String()
				}
				for _, tr := range result.Entities {
					entity := tr.Entity.Value

					data, ok := entity.Data.(cyoutube.EntityData)
					if !ok {
						continue
					}

					if data.Channel != nil {
						subscribers[entity.Handle] = data.Channel.Subscribers.Text
					} else {
						newChannels[entity.Handle] = data.NewChannelIDs
					}
				}

				cr.Log(ctx, clog.Params{
					Message: fmt.Sprintf(logHeader+"%T: result", cr),
					Level:   slog.LevelInfo,

					Values: clog.ParamGroup{
						"sessionID": result.SessionID,

						"orders":      orders,
						"newChannels": newChannels,
						"subscribers": subscribers,
					},
				})
			}
		}
	}(ctx, cr)

	printHelp()

	if err = cr.Start(ctx, sessionSettings); err != nil {
		panic(fmt.Errorf("cyoutube.Start: %w", err))
	}
	defer cr.Stop(ctx)

	// ------------------------------

	interruptSignal := make(chan os.Signal, 1)
	signal.Notify(interruptSignal, os.Interrupt)

	ui := NewUI()
	ui.BindKey(UIKeySubject{Key: keyboard.KeySpace}, func(_ *UI, e *UIKeyEvent) error {
		var verb string
		if cr.Paused() {
			cr.Resume(ctx)
			verb = "resumed"
		} else {
			cr.Pause(ctx)
			verb = "paused"
		}

		cr.Log(ctx, clog.Params{
			Message: fmt.Sprintf(logHeader+"%T: %s", cr, verb),
			Level:   slog.LevelInfo,
		})

		return nil
	})
	ui.BindKey(UIKeySubject{Rune: 'q'}, func(_ *UI, e *UIKeyEvent) error {
		e.StopPropagation()

		cr.Log(ctx, clog.Params{
			Message: logHeader + "quitting",
			Level:   slog.LevelInfo,
		})

		interruptSignal <- syscall.SIGINT

		return nil
	})
	ui.BindKey(UIKeySubject{Rune: 'i'}, func(_ *UI, e *UIKeyEvent) error {
		lp := clog.Params{
			Message: fmt.Sprintf(logHeader+"%T: immediate", cr),
			Level:   slog.LevelInfo,
		}

		_, lp.Err = cr.Immediate(ctx, 0)

		cr.Log(ctx, lp)
		return nil
	})
	ui.BindKey(UIKeySubject{Rune: 't'}, func(_ *UI, e *UIKeyEvent) error {
		go printTrend(ctx, cr)

		return nil
	})
	ui.BindKey(UIKeySubject{Rune: 'u'}, func(_ *UI, e *UIKeyEvent) error {
		lp := clog.Params{
			Message: fmt.Sprintf(logHeader+"%T: untracking all", cr),
			Level:   slog.LevelInfo,
		}

		_, lp.Err = cr.UntrackAll(ctx)

		cr.Log(ctx, lp)
		return nil
	})
	ui.BindKey(UIKeySubject{Key: keyboard.KeyEnter}, func(_ *UI, e *UIKeyEvent) error {
		fmt.Println()

		return nil
	})

	// ------------------------------

	go ui.Listen(ctx)
	defer ui.Close()

	<-interruptSignal
}

// Searches trendTerms once and prints the channels found, biggest first.
func printTrend(ctx context.Context, cr *cyoutube.Crawler) {
	report, err := trend.Run(ctx, cr, cr, trendTerms, trendLimit,
		trend.WithConcurrency(4),
		trend.WithRate(rate.Every(500*time.Millisecond), 1),
	)

	lp := clog.Params{
		Message: fmt.Sprintf(logHeader+"%T: trend", cr),
		Level:   slog.LevelInfo,
		Err:     err,

		Values: clog.ParamGroup{
			"terms": trendTerms,
		},
	}
	if err == nil {
		lp.Set("channels", len(report.Channels))
		lp.Set("failed", len(report.Failed))
	}
	cr.Log(ctx, lp)

	if err != nil {
		return
	}

	for i, ch := range report.Channels {
		fmt.Printf("  %2d. %-40s %12.0f  %s\n", i+1, ch.Name, ch.SubscriberCount, ch.ID)
	}
	fmt.Println()
}

func printHelp() {
	fmt.Println("========================================")
	fmt.Println(" Controls:")
	fmt.Println("   Q     --- quit")
	fmt.Println("   Space --- pause/resume")
	fmt.Println("   I     --- trigger an immediate crawl")
	fmt.Printf("   T     --- rank the channels of %q\n", trendTerms)
	fmt.Println("   U     --- untrack all handles")

	fmt.Println("========================================")
	fmt.Println(" Test handles:")
	for _, handle := range testHandles {
		fmt.Println("  ", handle.String())
	}

	fmt.Println("========================================")
	fmt.Println()
}

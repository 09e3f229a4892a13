package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rotarykeypad/internal/dial"
	"rotarykeypad/internal/gpio"
	"rotarykeypad/internal/handlers"
	"rotarykeypad/internal/hid"
	"rotarykeypad/internal/keypad"
	"rotarykeypad/internal/logger"
	"rotarykeypad/internal/repository"
	"rotarykeypad/internal/repository/db"
	"rotarykeypad/internal/server"
	"rotarykeypad/internal/service"

	"github.com/pkg/profile"
	"github.com/spf13/viper"
)

const shutdownTimeout = 5 * time.Second

// @title Rotary Keypad API
// @version 1.0
// @description Monitoring and control API for the rotary dial USB keypad daemon.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	if err := initConfig(); err != nil {
		logger.Get("info").Fatalf("read config: %v", err)
	}
	log := logger.Get(viper.GetString("log.level"))

	if viper.GetBool("profile") {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	cfg := dialConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("dial config: %v", err)
	}

	database, err := db.InitDB(viper.GetString("db.path"))
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close()

	line, err := newLine(log)
	if err != nil {
		log.Fatalf("open dial line: %v", err)
	}
	hook := newHook(log)

	sink, closeSink, err := newSink(log)
	if err != nil {
		log.Fatalf("open HID device: %v", err)
	}
	defer closeSink()

	repos := repository.NewRepository(database)
	services := service.NewService(service.Deps{
		Repos:          repos,
		Line:           line,
		Hook:           hook,
		Dial:           cfg,
		SampleInterval: viper.GetDuration("dial.sample_interval"),
		Emitter:        keypad.NewEmitter(sink, keyHold(log, cfg)),
		SigningKey:     viper.GetString("auth.signing_key"),
		Log:            log,
	})
	handler := handlers.NewHandler(services, log)

	ctx, cancel := context.WithCancel(context.Background())
	go services.Listener.Run(ctx)

	srv := new(server.Server)
	go func() {
		if err := srv.Run(viper.GetString("port"), handler.InitRoutes()); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()
	log.Infof("rotarykeypad started on port %s", viper.GetString("port"))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server shutdown: %v", err)
	}
}

func initConfig() error {
	viper.AddConfigPath("configs")
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

func dialConfig() dial.Config {
	cfg := dial.DefaultConfig()
	if d := viper.GetDuration("dial.debounce_window"); d > 0 {
		cfg.DebounceWindow = d
	}
	if d := viper.GetDuration("dial.min_pulse"); d > 0 {
		cfg.MinPulse = d
	}
	if d := viper.GetDuration("dial.max_pulse"); d > 0 {
		cfg.MaxPulse = d
	}
	if d := viper.GetDuration("dial.inter_digit_timeout"); d > 0 {
		cfg.InterDigitTimeout = d
	}
	return cfg
}

// keyHold reads hid.key_hold, falling back to the keypad default when
// the key is absent. The hold sleep runs on the sampling goroutine, so
// it must stay under the minimum break-pulse width.
func keyHold(log *logger.Logger, cfg dial.Config) time.Duration {
	hold := keypad.DefaultHold
	if viper.IsSet("hid.key_hold") {
		hold = viper.GetDuration("hid.key_hold")
		if hold <= 0 {
			log.Fatalf("hid.key_hold must be a positive duration, got %v", hold)
		}
	}
	if hold >= cfg.MinPulse {
		log.Fatalf("hid.key_hold %v must be shorter than dial.min_pulse %v", hold, cfg.MinPulse)
	}
	return hold
}

// newLine selects the pulse source: a replayed simulation when
// dial.simulate is set, the sysfs GPIO line otherwise.
func newLine(log *logger.Logger) (dial.LineReader, error) {
	if viper.GetBool("dial.simulate") {
		digits := viper.GetString("dial.simulate_digits")
		log.Infof("simulating dial input: %q", digits)
		return dial.NewSimulator(digits, time.Now)
	}
	gpioLine := viper.GetInt("dial.gpio_line")
	log.Infof("reading dial pulses from GPIO %d", gpioLine)
	return gpio.NewSysfsLine(gpioLine, viper.GetBool("dial.invert")), nil
}

// newHook returns the hook switch line, or nil when none is configured
// (dial.hook_gpio_line < 0 means the handset is treated as always
// lifted).
func newHook(log *logger.Logger) dial.LineReader {
	if !viper.IsSet("dial.hook_gpio_line") {
		return nil
	}
	gpioLine := viper.GetInt("dial.hook_gpio_line")
	if gpioLine < 0 {
		return nil
	}
	log.Infof("reading hook switch from GPIO %d", gpioLine)
	return gpio.NewSysfsLine(gpioLine, viper.GetBool("dial.hook_invert"))
}

// newSink opens the HID gadget device, falling back to a logging no-op
// when hid.device is empty so the daemon can run off-target.
func newSink(log *logger.Logger) (hid.Sink, func(), error) {
	path := viper.GetString("hid.device")
	if path == "" {
		log.Warn("hid.device not set, keystrokes will only be logged")
		return hid.NullSink{Log: log}, func() {}, nil
	}
	gadget, err := hid.OpenGadget(path)
	if err != nil {
		return nil, nil, err
	}
	log.Infof("sending keystrokes to %s", path)
	return gadget, func() { gadget.Close() }, nil
}

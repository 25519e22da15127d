// Serial Scope - multi-channel serial data monitor
// This program decodes channel-tagged frames from a serial device, keeps a
// rolling window of recent values per channel and optionally records the
// stream to CSV.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"serial-scope/internal/acquisition"
	"serial-scope/internal/channel"
	"serial-scope/internal/config"
	"serial-scope/internal/demo"
	"serial-scope/internal/monitor"
	"serial-scope/internal/recorder"
	"serial-scope/internal/version"

	"github.com/avast/retry-go"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.bug.st/serial"
)

// Command line flag variables
var (
	cfgFile     string // Configuration file path
	portName    string // Serial port device path
	baudRate    int    // Serial baud rate
	windowSize  int    // Rolling window length per channel
	tickRate    string // Consumer tick interval (e.g. "16ms")
	demoMode    bool   // Feed synthetic channels instead of hardware
	record      bool   // Start recording immediately
	outputDir   string // Recording output directory
	duration    string // Optional session duration (e.g. "60s", empty = until interrupt)
	verbose     bool   // Enable verbose logging
	showVersion bool   // Show version information
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "serial-scope",
	Short: "Multi-channel serial data monitor",
	Long: `Serial Scope reads a continuous binary stream from a serial device that
multiplexes six logical channels into one byte stream, decodes channel-tagged
frames and maintains a scrolling window of recent values per channel for live
display and optional CSV recording.`,
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion {
			fmt.Println(version.GetVersionInfo("Serial Scope"))
			return
		}
		if err := runScope(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// init initializes the CLI flags and configuration
func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "./config.yaml", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.Flags().StringVarP(&portName, "port", "p", "/dev/ttyUSB0", "serial port device path")
	rootCmd.Flags().IntVarP(&baudRate, "baud", "b", 921600, "serial baud rate")
	rootCmd.Flags().IntVarP(&windowSize, "window", "w", 500, "rolling window length per channel (100-500)")
	rootCmd.Flags().StringVar(&tickRate, "tick", "16ms", "consumer tick interval")
	rootCmd.Flags().BoolVar(&demoMode, "demo", false, "show demo signal (3 synthetic channels, no hardware)")
	rootCmd.Flags().BoolVarP(&record, "record", "r", false, "start recording immediately")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "./recordings", "recording output directory")
	rootCmd.Flags().StringVarP(&duration, "duration", "d", "", "stop after this long (empty = run until interrupt)")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "show version information")

	// Bind command line flags to viper configuration keys
	viper.BindPFlag("serial.port", rootCmd.Flags().Lookup("port"))
	viper.BindPFlag("serial.baud_rate", rootCmd.Flags().Lookup("baud"))
	viper.BindPFlag("channels.window_size", rootCmd.Flags().Lookup("window"))
	viper.BindPFlag("display.tick_interval", rootCmd.Flags().Lookup("tick"))
	viper.BindPFlag("recording.output_dir", rootCmd.Flags().Lookup("output"))
	viper.BindPFlag("recording.enabled", rootCmd.Flags().Lookup("record"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig merges defaults, config file and flags into a validated Config
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Flag-bound keys use underscored names viper cannot map to struct
	// fields on its own; set them explicitly.
	cfg.Serial.Port = viper.GetString("serial.port")
	cfg.Serial.BaudRate = viper.GetInt("serial.baud_rate")
	cfg.Channels.WindowSize = viper.GetInt("channels.window_size")
	cfg.Recording.OutputDir = viper.GetString("recording.output_dir")
	cfg.Recording.Enabled = viper.GetBool("recording.enabled")

	tickParsed, err := time.ParseDuration(viper.GetString("display.tick_interval"))
	if err != nil {
		return nil, fmt.Errorf("invalid tick interval: %w", err)
	}
	cfg.Display.TickInterval = tickParsed

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openPort opens the serial transport, retrying a few times since USB serial
// devices are briefly busy right after enumeration.
func openPort(cfg *config.Config) (serial.Port, error) {
	mode := &serial.Mode{
		BaudRate: cfg.Serial.BaudRate,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	}

	var port serial.Port
	err := retry.Do(
		func() error {
			p, err := serial.Open(cfg.Serial.Port, mode)
			if err != nil {
				return err
			}
			port = p
			return nil
		},
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Serial.Port, err)
	}
	port.ResetInputBuffer()
	return port, nil
}

// runScope is the main application logic
func runScope() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var sessionDuration time.Duration
	if duration != "" {
		sessionDuration, err = time.ParseDuration(duration)
		if err != nil {
			return fmt.Errorf("invalid duration format: %w", err)
		}
	}

	fmt.Printf("Serial Scope %s starting...\n", version.GetFullVersion())

	set := channel.NewSet(cfg.Channels.WindowSize, cfg.Channels.QueueCapacity)
	for i, name := range cfg.Channels.Names {
		set.SetMetadata(channel.ID(i), name, "")
	}
	for i, col := range cfg.Channels.Colors {
		set.SetMetadata(channel.ID(i), "", col)
	}

	rec := recorder.New()
	sink := newStatusSink()
	mon := monitor.New(set, rec, sink, cfg.Display.TickInterval)

	var loop *acquisition.Loop
	var gen *demo.Generator
	sessionStart := time.Now()

	if demoMode {
		gen = demo.NewGenerator(set, 0)
		gen.Start()
		fmt.Printf("Demo signal active (3 synthetic channels)\n")
	} else {
		port, err := openPort(cfg)
		if err != nil {
			return err
		}
		loop = acquisition.New(port, set)
		if err := loop.Start(); err != nil {
			return err
		}
		fmt.Printf("Connected to %s @ %d baud\n", cfg.Serial.Port, cfg.Serial.BaudRate)
	}

	if cfg.Recording.Enabled {
		rec.Start()
		fmt.Printf("Recording started\n")
	}

	mon.Start()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var deadline <-chan time.Time
	if sessionDuration > 0 {
		deadline = time.After(sessionDuration)
	}

	var bar *progressbar.ProgressBar
	if rec.Active() {
		bar = progressbar.NewOptions(5000,
			progressbar.OptionSetDescription("REC"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
		)
	}

	refresh := time.NewTicker(cfg.Display.RefreshInterval)
	defer refresh.Stop()

	running := true
	for running {
		select {
		case <-sigChan:
			fmt.Printf("\nReceived interrupt signal, shutting down...\n")
			running = false
		case <-deadline:
			fmt.Printf("\nSession duration reached\n")
			running = false
		case <-refresh.C:
			if loop != nil && loop.State() == acquisition.Faulted {
				fmt.Printf("\nConnection lost\n")
				running = false
				break
			}
			if bar != nil {
				bar.Set(rec.Len())
			} else {
				fmt.Print(sink.statusLine(set))
			}
		}
	}

	mon.Stop()
	if gen != nil {
		gen.Stop()
	}
	if loop != nil {
		faulted := loop.State() == acquisition.Faulted
		if err := loop.Stop(); err != nil && !faulted {
			fmt.Fprintf(os.Stderr, "Warning: transport close error: %v\n", err)
		}
		stats := loop.Stats()
		fmt.Printf("\nFrames: %d  unknown tags: %d  short frames: %d  overflow drops: %d\n",
			stats.Frames, stats.UnknownTags, stats.ShortFrames, set.Dropped())
	}

	if rec.Active() {
		rows := rec.Stop()
		if len(rows) == 0 {
			fmt.Printf("No data recorded.\n")
		} else {
			path, err := recorder.SaveFile(cfg.Recording.OutputDir, set.Names(), rows)
			if err != nil {
				return fmt.Errorf("failed to save recording: %w", err)
			}
			fmt.Printf("Recorded %d rows.\nSaved to: %s\n", len(rows), path)
		}
	}

	fmt.Printf("Session: %.2fs\n", time.Since(sessionStart).Seconds())
	return nil
}

// palette maps the stored channel colors to terminal colors. Unknown colors
// fall back to white.
var palette = map[string]*color.Color{
	"#00ffe7": color.New(color.FgHiCyan),
	"#ff2d78": color.New(color.FgHiMagenta),
	"#39ff14": color.New(color.FgHiGreen),
	"#ffe600": color.New(color.FgHiYellow),
	"#bf5fff": color.New(color.FgMagenta),
	"#ff8c00": color.New(color.FgRed),
}

func colorFor(hex string) *color.Color {
	if c, ok := palette[strings.ToLower(hex)]; ok {
		return c
	}
	return color.New(color.FgWhite)
}

// statusSink keeps the latest value per channel for the terminal status line.
// Update is called from the monitor tick, the line is built from the refresh
// loop, so the state is mutex-guarded.
type statusSink struct {
	mu     sync.Mutex
	latest [channel.NumChannels]float64
	seen   [channel.NumChannels]bool
}

func newStatusSink() *statusSink {
	return &statusSink{}
}

func (s *statusSink) Update(id channel.ID, values []float64, pos int) {
	s.mu.Lock()
	s.latest[id] = values[len(values)-1]
	s.seen[id] = true
	s.mu.Unlock()
}

func (s *statusSink) statusLine(set *channel.Set) string {
	s.mu.Lock()
	latest, seen := s.latest, s.seen
	s.mu.Unlock()

	var sb strings.Builder
	sb.WriteString("\r")
	for id := channel.ID(0); id < channel.NumChannels; id++ {
		if !seen[id] {
			continue
		}
		meta := set.Metadata(id)
		sb.WriteString(colorFor(meta.Color).Sprintf("%s=%.2f", meta.Name, latest[id]))
		sb.WriteString("  ")
	}
	return sb.String()
}

// main is the entry point of the application
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

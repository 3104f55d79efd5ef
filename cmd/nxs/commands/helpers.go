package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/nexus-tools/nexus-cli/internal/client"
	"github.com/nexus-tools/nexus-cli/internal/constants"
	"github.com/nexus-tools/nexus-cli/pkg/nexus"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type.
type OutputFormat string

// Output format constants.
const (
	OutputFormatTable OutputFormat = constants.FormatTable
	OutputFormatJSON  OutputFormat = constants.FormatJSON
	OutputFormatYAML  OutputFormat = constants.FormatYAML
)

// CreateClient builds a catalog client for the active profile.
func CreateClient(store ProfileStore) (nexus.Client, error) {
	_, profile, err := store.Current()
	if err != nil {
		return nil, err
	}

	if profile.URL == "" {
		return nil, nexus.ErrNoEndpointConfigured
	}

	config := &nexus.Config{
		Endpoint:  profile.URL,
		Token:     profile.Token,
		UserAgent: "nexus-cli",
		Debug:     viper.GetBool("verbose"),
		RetryMax:  viper.GetInt("retry_max"),
	}

	if viper.GetBool("verbose") {
		config.Logger = NewZerologAdapter(os.Stderr)
	}

	config.Cache = cacheConfigFromSettings()

	catalogClient, err := client.New(config)
	if err != nil {
		return nil, err
	}

	return catalogClient, nil
}

// cacheConfigFromSettings maps persisted cache settings onto the client
// cache configuration. Unset means no caching.
func cacheConfigFromSettings() *nexus.CacheConfig {
	cacheType := viper.GetString("cache_type")
	if cacheType == "" {
		return nil
	}

	config := &nexus.CacheConfig{Type: nexus.CacheType(cacheType)}

	switch config.Type {
	case nexus.CacheTypeMemory:
		config.Memory = &nexus.MemoryCacheConfig{
			MaxSize: constants.DefaultCacheSize,
		}
	case nexus.CacheTypeNATS:
		config.NATS = &nexus.NATSKVConfig{
			URL:    viper.GetString("cache_nats"),
			Bucket: "nexus-cli-cache",
			TTL:    constants.DefaultCacheTTL,
		}
	case nexus.CacheTypeNone:
	}

	return config
}

// ZerologAdapter implements the client Logger interface on top of zerolog.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter creates a console-format zerolog logger for verbose mode.
func NewZerologAdapter(out *os.File) *ZerologAdapter {
	writer := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    viper.GetBool("no_color") || !term.IsTerminal(int(out.Fd())),
	}

	return &ZerologAdapter{
		logger: zerolog.New(writer).Level(zerolog.DebugLevel).With().Timestamp().Logger(),
	}
}

// Debug implements nexus.Logger.
func (z *ZerologAdapter) Debug(msg string, fields map[string]interface{}) {
	z.logger.Debug().Fields(fields).Msg(msg)
}

// Info implements nexus.Logger.
func (z *ZerologAdapter) Info(msg string, fields map[string]interface{}) {
	z.logger.Info().Fields(fields).Msg(msg)
}

// Warn implements nexus.Logger.
func (z *ZerologAdapter) Warn(msg string, fields map[string]interface{}) {
	z.logger.Warn().Fields(fields).Msg(msg)
}

// Error implements nexus.Logger.
func (z *ZerologAdapter) Error(msg string, fields map[string]interface{}) {
	z.logger.Error().Fields(fields).Msg(msg)
}

// StandardJSONRenderer provides generic JSON rendering for any data type.
type StandardJSONRenderer[T any] struct{}

// Render outputs the data as indented JSON.
func (r StandardJSONRenderer[T]) Render(data T) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer provides generic YAML rendering for any data type.
type StandardYAMLRenderer[T any] struct{}

// Render outputs the data as YAML.
func (r StandardYAMLRenderer[T]) Render(data T) error {
	encoder := yaml.NewEncoder(os.Stdout)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

// colorEnabled reports whether colored output should be produced.
func colorEnabled() bool {
	if viper.GetBool("no_color") {
		return false
	}

	return term.IsTerminal(int(os.Stdout.Fd()))
}

// PrintJSON pretty-prints a raw JSON document.
func PrintJSON(data []byte) {
	fmt.Fprintln(os.Stdout, prettyJSON(data))
}

// PrintJSONColored pretty-prints a raw JSON document in the given color when
// standard output is a terminal.
func PrintJSONColored(out io.Writer, data []byte, attr color.Attribute) {
	pretty := prettyJSON(data)

	if colorEnabled() {
		_, _ = color.New(attr).Fprintln(out, pretty)

		return
	}

	fmt.Fprintln(out, pretty)
}

func prettyJSON(data []byte) string {
	var parsed interface{}

	err := json.Unmarshal(data, &parsed)
	if err != nil {
		return string(data)
	}

	pretty, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return string(data)
	}

	return string(pretty)
}

// printTotal prints the traversal item count footer.
func printTotal(out io.Writer, count int) {
	if colorEnabled() {
		_, _ = color.New(color.FgGreen).Fprintf(out, "Total: %d\n", count)

		return
	}

	fmt.Fprintf(out, "Total: %d\n", count)
}

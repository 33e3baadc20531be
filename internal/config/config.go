// Package config provides configuration structures and defaults for the snp
// command-line tool.
package config

import (
	"errors"
	"fmt"

	sparams "github.com/rfkit/go-sparams"
)

// Config represents the complete tool configuration
type Config struct {
	Write      WriteConfig      `yaml:"write" mapstructure:"write"`             // Touchstone export settings
	Trace      TraceConfig      `yaml:"trace" mapstructure:"trace"`             // Display trace settings
	TimeDomain TimeDomainConfig `yaml:"time_domain" mapstructure:"time_domain"` // Impulse response settings
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`         // Diagnostic output
}

// WriteConfig contains Touchstone export parameters
type WriteConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // Data encoding: MA, DB or RI
	Unit   string `yaml:"unit" mapstructure:"unit"`     // Frequency unit: HZ, KHZ, MHZ or GHZ
	Header string `yaml:"header" mapstructure:"header"` // Free text written before the generated comments
}

// TraceConfig contains display trace parameters
type TraceConfig struct {
	Param       string  `yaml:"param" mapstructure:"param"`             // Parameter label, e.g. S21
	StartHz     float64 `yaml:"start_hz" mapstructure:"start_hz"`       // First grid frequency (0 = data minimum)
	StopHz      float64 `yaml:"stop_hz" mapstructure:"stop_hz"`         // Grid end, excluded (0 = data maximum)
	Points      int     `yaml:"points" mapstructure:"points"`           // Grid size
	Method      string  `yaml:"method" mapstructure:"method"`           // linear or spline
	Extrapolate string  `yaml:"extrapolate" mapstructure:"extrapolate"` // none, zero, left, right or ends
}

// TimeDomainConfig contains impulse response parameters
type TimeDomainConfig struct {
	Param  string  `yaml:"param" mapstructure:"param"`   // Parameter label, e.g. S21
	Points int     `yaml:"points" mapstructure:"points"` // Transform length
	Beta   float64 `yaml:"beta" mapstructure:"beta"`     // Kaiser window shape (negative disables)
}

// LoggingConfig contains diagnostic output parameters
type LoggingConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"` // Report verbose and notice messages
}

// DefaultConfig returns a configuration with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Write: WriteConfig{
			Format: "MA",  // Magnitude/angle, the Touchstone default
			Unit:   "GHZ", // Gigahertz frequency column
			Header: "",    // No free-text header
		},
		Trace: TraceConfig{
			Param:       "S21",    // Forward transmission
			StartHz:     0,        // Data minimum
			StopHz:      0,        // Data maximum
			Points:      401,      // Typical VNA sweep size
			Method:      "linear", // Per-point interpolation
			Extrapolate: "none",   // Flag uncovered points
		},
		TimeDomain: TimeDomainConfig{
			Param:  "S21", // Forward transmission
			Points: 1024,  // Transform length
			Beta:   6,     // Normal sidelobe suppression
		},
		Logging: LoggingConfig{
			Verbose: false, // Warnings and errors only
		},
	}
}

// Validate checks every section and returns all problems found.
func (c *Config) Validate() error {
	_, werr := c.WriteOptions()
	_, _, terr := c.TraceOptions()
	_, _, derr := c.TimeDomainOptions()
	return errors.Join(werr, terr, derr)
}

// WriteOptions converts the write section to Touchstone writer options.
func (c *Config) WriteOptions() (sparams.WriteOptions, error) {
	format, err := sparams.ParseFormat(c.Write.Format)
	if err != nil {
		return sparams.WriteOptions{}, fmt.Errorf("write.format: %w", err)
	}
	unit, err := sparams.ParseUnit(c.Write.Unit)
	if err != nil {
		return sparams.WriteOptions{}, fmt.Errorf("write.unit: %w", err)
	}

	opts := sparams.WriteOptions{Format: format, Unit: unit, Header: c.Write.Header}
	if err := opts.Validate(); err != nil {
		return sparams.WriteOptions{}, fmt.Errorf("write: %w", err)
	}
	return opts, nil
}

// TraceOptions converts the trace section to a parameter and trace options.
func (c *Config) TraceOptions() (sparams.Pair, sparams.TraceOptions, error) {
	pair, err := sparams.ParsePair(c.Trace.Param)
	if err != nil {
		return sparams.Pair{}, sparams.TraceOptions{}, fmt.Errorf("trace.param: %w", err)
	}
	if c.Trace.Points <= 0 {
		return sparams.Pair{}, sparams.TraceOptions{}, fmt.Errorf("trace.points: must be positive, got %d", c.Trace.Points)
	}
	if c.Trace.StopHz != 0 && c.Trace.StopHz <= c.Trace.StartHz {
		return sparams.Pair{}, sparams.TraceOptions{}, fmt.Errorf("trace.stop_hz: %g is not above start_hz %g", c.Trace.StopHz, c.Trace.StartHz)
	}
	method, err := sparams.ParseTraceMethod(c.Trace.Method)
	if err != nil {
		return sparams.Pair{}, sparams.TraceOptions{}, fmt.Errorf("trace.method: %w", err)
	}
	ext, err := sparams.ParseExtrapolation(c.Trace.Extrapolate)
	if err != nil {
		return sparams.Pair{}, sparams.TraceOptions{}, fmt.Errorf("trace.extrapolate: %w", err)
	}
	return pair, sparams.TraceOptions{Method: method, Extrapolation: ext}, nil
}

// TimeDomainOptions converts the time_domain section to transform options.
func (c *Config) TimeDomainOptions() (sparams.Pair, sparams.TimeDomainOptions, error) {
	pair, err := sparams.ParsePair(c.TimeDomain.Param)
	if err != nil {
		return sparams.Pair{}, sparams.TimeDomainOptions{}, fmt.Errorf("time_domain.param: %w", err)
	}
	opts := sparams.TimeDomainOptions{Points: c.TimeDomain.Points, Beta: c.TimeDomain.Beta}
	if err := opts.Validate(); err != nil {
		return sparams.Pair{}, sparams.TimeDomainOptions{}, fmt.Errorf("time_domain: %w", err)
	}
	return pair, opts, nil
}

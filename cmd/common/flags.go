package common

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// CommonFlags holds flags shared by all command-line tools
type CommonFlags struct {
	EnvFile  *string
	Verbose  *bool
	Silent   *bool
	NoEmojis *bool
	NoColors *bool
	Version  *bool
	Help     *bool
}

// RegisterCommonFlags registers the flags common to all tools
func RegisterCommonFlags() *CommonFlags {
	return &CommonFlags{
		EnvFile:  flag.String("env", "", "Environment file to load (default: .env)"),
		Verbose:  flag.Bool("verbose", false, "Enable verbose logging"),
		Silent:   flag.Bool("silent", false, "Reduce output to essential results only"),
		NoEmojis: flag.Bool("no-emojis", false, "Disable emojis in output"),
		NoColors: flag.Bool("no-colors", false, "Disable colored output"),
		Version:  flag.Bool("version", false, "Show version information"),
		Help:     flag.Bool("help", false, "Show help information"),
	}
}

// FlagValidator provides validation for command-line flags
type FlagValidator struct {
	errors []string
}

// NewFlagValidator creates a new flag validator
func NewFlagValidator() *FlagValidator {
	return &FlagValidator{errors: make([]string, 0)}
}

// ValidateInt validates an integer flag is within bounds
func (v *FlagValidator) ValidateInt(name string, value, min, max int) *FlagValidator {
	if value < min || value > max {
		v.errors = append(v.errors, fmt.Sprintf("-%s must be between %d and %d, got %d", name, min, max, value))
	}
	return v
}

// ValidateFile validates that a file exists and is readable
func (v *FlagValidator) ValidateFile(name, path string) *FlagValidator {
	if path == "" {
		v.errors = append(v.errors, fmt.Sprintf("-%s is required", name))
		return v
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.errors = append(v.errors, fmt.Sprintf("-%s file does not exist: %s", name, path))
	} else if err != nil {
		v.errors = append(v.errors, fmt.Sprintf("-%s file is not accessible: %s", name, path))
	} else if info.IsDir() {
		v.errors = append(v.errors, fmt.Sprintf("-%s must be a file, not a directory: %s", name, path))
	}
	return v
}

// ValidateDirectory validates that a path is usable as an output directory
func (v *FlagValidator) ValidateDirectory(name, path string) *FlagValidator {
	if path == "" {
		v.errors = append(v.errors, fmt.Sprintf("-%s is required", name))
		return v
	}

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		v.errors = append(v.errors, fmt.Sprintf("-%s exists but is not a directory: %s", name, path))
	}
	return v
}

// AddError adds a custom validation error
func (v *FlagValidator) AddError(message string) *FlagValidator {
	v.errors = append(v.errors, message)
	return v
}

// HasErrors returns true if there are validation errors
func (v *FlagValidator) HasErrors() bool {
	return len(v.errors) > 0
}

// GetErrors returns all validation errors
func (v *FlagValidator) GetErrors() []string {
	return v.errors
}

// GetError returns all errors as a single error
func (v *FlagValidator) GetError() error {
	if !v.HasErrors() {
		return nil
	}
	return fmt.Errorf("flag validation failed:\n%s", strings.Join(v.errors, "\n"))
}

// PrintErrors prints all validation errors to stderr
func (v *FlagValidator) PrintErrors() {
	if !v.HasErrors() {
		return
	}

	fmt.Fprintf(os.Stderr, "❌ Flag validation errors:\n")
	for _, err := range v.errors {
		fmt.Fprintf(os.Stderr, "  • %s\n", err)
	}
}

// UsageFormatter formats the usage text for a tool
type UsageFormatter struct {
	AppName     string
	Description string
	Examples    []string
}

// NewUsageFormatter creates a new usage formatter
func NewUsageFormatter(appName, description string) *UsageFormatter {
	return &UsageFormatter{
		AppName:     appName,
		Description: description,
		Examples:    make([]string, 0),
	}
}

// AddExample adds a usage example
func (u *UsageFormatter) AddExample(example string) *UsageFormatter {
	u.Examples = append(u.Examples, example)
	return u
}

// PrintUsage prints the formatted usage text
func (u *UsageFormatter) PrintUsage() {
	fmt.Printf("%s - %s\n\n", u.AppName, u.Description)
	fmt.Printf("Usage:\n  %s [options]\n\n", os.Args[0])

	fmt.Println("Options:")
	flag.PrintDefaults()

	if len(u.Examples) > 0 {
		fmt.Println("\nExamples:")
		for _, example := range u.Examples {
			fmt.Printf("  %s\n", example)
		}
	}
}

// CheckHelpAndVersion handles -help and -version flags, exiting if either is set
func CheckHelpAndVersion(commonFlags *CommonFlags, usage *UsageFormatter) {
	if *commonFlags.Help {
		usage.PrintUsage()
		os.Exit(0)
	}

	if *commonFlags.Version {
		PrintVersion()
		os.Exit(0)
	}
}

// SetupLogger configures the default logger from common flags
func SetupLogger(commonFlags *CommonFlags) {
	DefaultLogger.SilentMode = *commonFlags.Silent
	DefaultLogger.ShowEmojis = !*commonFlags.NoEmojis
	DefaultLogger.ShowColors = !*commonFlags.NoColors

	if *commonFlags.Verbose {
		DefaultLogger.Level = LogLevelDebug
	}
}

// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/btcsuite/go-socks/socks"
	flags "github.com/jessevdk/go-flags"

	"github.com/btcsuite/btcutil"

	"github.com/dagnet/dagd/infrastructure/logger"
	"github.com/dagnet/dagd/util/network"
	"github.com/dagnet/dagd/version"
)

const (
	defaultConfigFilename           = "dagd.conf"
	defaultLogLevel                 = "info"
	defaultLogDirname               = "logs"
	defaultLogFilename              = "dagd.log"
	defaultErrLogFilename           = "dagd_err.log"
	defaultDataDirname              = "data"
	defaultTargetOutboundPeers      = 8
	defaultMaxInboundPeers          = 117
	defaultMaxPossibleDepth         = 1000
	defaultMaxBranchingFactor       = 1.5
	defaultMaxDepthAncestorsRequest = 100

	// DefaultListenPort is the port dagd listens on when no port was
	// given explicitly.
	DefaultListenPort = "16111"

	// DefaultConnectTimeout is the default timeout for dialing peers.
	DefaultConnectTimeout = time.Second * 30
)

var (
	// DefaultHomeDir is the default home directory for dagd.
	DefaultHomeDir = btcutil.AppDataDir("dagd", false)

	defaultConfigFile = filepath.Join(DefaultHomeDir, defaultConfigFilename)
	defaultDataDir    = filepath.Join(DefaultHomeDir, defaultDataDirname)
	defaultLogDir     = filepath.Join(DefaultHomeDir, defaultLogDirname)
)

// activeConfig is the loaded configuration of the running dagd instance
var activeConfig *Config

// ActiveConfig returns the active configuration struct
func ActiveConfig() *Config {
	return activeConfig
}

// Flags defines the configuration options for dagd.
//
// See loadConfig for details on the configuration load process.
type Flags struct {
	ShowVersion              bool     `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile               string   `short:"C" long:"configfile" description:"Path to configuration file"`
	DataDir                  string   `short:"b" long:"datadir" description:"Directory to store data"`
	LogDir                   string   `long:"logdir" description:"Directory to log output"`
	AddPeers                 []string `short:"a" long:"addpeer" description:"Add a peer to connect with at startup"`
	ConnectPeers             []string `long:"connect" description:"Connect only to the specified peers at startup"`
	DisableListen            bool     `long:"nolisten" description:"Disable listening for incoming connections"`
	Listeners                []string `long:"listen" description:"Add an interface/port to listen for connections (default all interfaces port: 16111)"`
	TargetOutboundPeers      int      `long:"outpeers" description:"Target number of outbound peers"`
	MaxInboundPeers          int      `long:"maxinpeers" description:"Max number of inbound peers"`
	Proxy                    string   `long:"proxy" description:"Connect via SOCKS5 proxy (eg. 127.0.0.1:9050)"`
	ProxyUser                string   `long:"proxyuser" description:"Username for proxy server"`
	ProxyPass                string   `long:"proxypass" default-mask:"-" description:"Password for proxy server"`
	DebugLevel               string   `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	Profile                  string   `long:"profile" description:"Enable HTTP profiling on given port -- NOTE port must be between 1024 and 65535"`
	MaxPossibleDepth         uint64   `long:"maxpossibledepth" description:"Maximum depth an ancestor chain may reach before a synced summary is rejected as too deep"`
	MaxBranchingFactor       float64  `long:"maxbranchingfactor" description:"Maximum ratio between the populations of adjacent ranks before a synced summary is rejected as too wide"`
	MaxDepthAncestorsRequest uint64   `long:"maxdepthancestorsrequest" description:"Depth asked for in each ancestor summaries request, and the maximum number of hops a synced summary may lie from the sync targets"`
}

// Config defines the configuration options for dagd.
//
// See loadConfig for details on the configuration load process.
type Config struct {
	*Flags
	Lookup func(string) ([]net.IP, error)
	Dial   func(string, string, time.Duration) (net.Conn, error)
}

// validateSyncLimits makes sure the configured sync limits are within the
// domains the synchronizer operates on.
func validateSyncLimits(flags *Flags) error {
	if flags.MaxPossibleDepth < 1 {
		return errors.Errorf("the maxpossibledepth option must be at least 1 -- parsed [%d]",
			flags.MaxPossibleDepth)
	}
	if flags.MaxBranchingFactor < 1.0 {
		return errors.Errorf("the maxbranchingfactor option must be at least 1.0 -- parsed [%f]",
			flags.MaxBranchingFactor)
	}
	if flags.MaxDepthAncestorsRequest < 1 {
		return errors.Errorf("the maxdepthancestorsrequest option must be at least 1 -- parsed [%d]",
			flags.MaxDepthAncestorsRequest)
	}
	return nil
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(DefaultHomeDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

func defaultFlags() *Flags {
	return &Flags{
		ConfigFile:               defaultConfigFile,
		DebugLevel:               defaultLogLevel,
		DataDir:                  defaultDataDir,
		LogDir:                   defaultLogDir,
		TargetOutboundPeers:      defaultTargetOutboundPeers,
		MaxInboundPeers:          defaultMaxInboundPeers,
		MaxPossibleDepth:         defaultMaxPossibleDepth,
		MaxBranchingFactor:       defaultMaxBranchingFactor,
		MaxDepthAncestorsRequest: defaultMaxDepthAncestorsRequest,
	}
}

// DefaultConfig returns the default dagd configuration
func DefaultConfig() *Config {
	config := &Config{Flags: defaultFlags()}
	config.Lookup = net.LookupIP
	config.Dial = net.DialTimeout
	return config
}

// LoadAndSetActiveConfig loads the config that can be afterward be accesible
// through ActiveConfig()
func LoadAndSetActiveConfig() error {
	tcfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	activeConfig = tcfg
	return nil
}

// loadConfig initializes and parses the config using a config file and command
// line options.
//
// The configuration proceeds as follows:
//  1) Start with a default config with sane settings
//  2) Pre-parse the command line to check for an alternative config file
//  3) Load configuration file overwriting defaults with any specified options
//  4) Parse CLI options and overwrite/add any specified options
//
// The above results in dagd functioning properly without any config settings
// while still allowing the user to override settings with config files and
// command line options. Command line options always take precedence.
func loadConfig() (*Config, []string, error) {
	cfgFlags := defaultFlags()

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified. Any errors aside from the
	// help message error can be ignored here since they will be caught by
	// the final parse below.
	preCfg := cfgFlags
	preParser := flags.NewParser(preCfg, flags.HelpFlag)
	_, err := preParser.Parse()
	if err != nil {
		var flagsErr *flags.Error
		if ok := errors.As(err, &flagsErr); ok && flagsErr.Type == flags.ErrHelp {
			return nil, nil, err
		}
	}

	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)

	// Show the version and exit if the version flag was specified.
	if preCfg.ShowVersion {
		fmt.Println(appName, "version", version.Version())
		os.Exit(0)
	}

	// Load additional config from file.
	parser := flags.NewParser(cfgFlags, flags.Default)
	cfg := &Config{
		Flags: cfgFlags,
	}
	var configFileError error
	err = flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile)
	if err != nil {
		var pathErr *os.PathError
		if ok := errors.As(err, &pathErr); !ok {
			fmt.Fprintf(os.Stderr, "Error parsing config file: %s\n", err)
			fmt.Fprintln(os.Stderr, usageMessage)
			return nil, nil, err
		}
		configFileError = err
	}

	// Parse command line options again to ensure they take precedence.
	remainingArgs, err := parser.Parse()
	if err != nil {
		var flagsErr *flags.Error
		if ok := errors.As(err, &flagsErr); !ok || flagsErr.Type != flags.ErrHelp {
			fmt.Fprintln(os.Stderr, usageMessage)
		}
		return nil, nil, err
	}

	// Create the home directory if it doesn't already exist.
	funcName := "loadConfig"
	err = os.MkdirAll(DefaultHomeDir, 0700)
	if err != nil {
		str := "%s: failed to create home directory: %s"
		err := errors.Errorf(str, funcName, err)
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}

	cfg.DataDir = cleanAndExpandPath(cfg.DataDir)
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", logger.SupportedSubsystems())
		os.Exit(0)
	}

	// Initialize log rotation. After log rotation has been initialized, the
	// logger variables may be used.
	logger.InitLog(filepath.Join(cfg.LogDir, defaultLogFilename), filepath.Join(cfg.LogDir, defaultErrLogFilename))

	// Parse, validate, and set debug log level(s).
	if err := logger.ParseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		err := errors.Errorf("%s: %s", funcName, err.Error())
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, nil, err
	}

	// --addpeer and --connect are mutually exclusive.
	if len(cfg.AddPeers) > 0 && len(cfg.ConnectPeers) > 0 {
		str := "%s: the --addpeer and --connect options can not be mixed"
		err := errors.Errorf(str, funcName)
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, nil, err
	}

	// Connecting only to specific peers implies no listening for others.
	if len(cfg.ConnectPeers) > 0 {
		cfg.DisableListen = true
	}

	// Add the default listener if none were specified. The default listener
	// is all addresses on the default port.
	if len(cfg.Listeners) == 0 {
		cfg.Listeners = []string{
			net.JoinHostPort("", DefaultListenPort),
		}
	}

	// Validate the sync limits.
	if err := validateSyncLimits(cfg.Flags); err != nil {
		err := errors.Errorf("%s: %s", funcName, err)
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, nil, err
	}

	// Validate profile port number.
	if cfg.Profile != "" {
		profilePort, err := strconv.Atoi(cfg.Profile)
		if err != nil || profilePort < 1024 || profilePort > 65535 {
			str := "%s: the profile port must be between 1024 and 65535"
			err := errors.Errorf(str, funcName)
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintln(os.Stderr, usageMessage)
			return nil, nil, err
		}
	}

	// Add default port to all listener addresses if needed and remove
	// duplicate addresses.
	cfg.Listeners, err = network.NormalizeAddresses(cfg.Listeners, DefaultListenPort)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, nil, err
	}

	// Add default port to all added peer addresses if needed and remove
	// duplicate addresses.
	cfg.AddPeers, err = network.NormalizeAddresses(cfg.AddPeers, DefaultListenPort)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, nil, err
	}
	cfg.ConnectPeers, err = network.NormalizeAddresses(cfg.ConnectPeers, DefaultListenPort)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, nil, err
	}

	// Setup dial and DNS resolution (lookup) functions depending on the
	// specified options. The default is to use the standard net.DialTimeout
	// function as well as the system DNS resolver. When a proxy is
	// specified, the dial function is set to the proxy specific dial
	// function.
	cfg.Dial = net.DialTimeout
	cfg.Lookup = net.LookupIP
	if cfg.Proxy != "" {
		_, _, err := net.SplitHostPort(cfg.Proxy)
		if err != nil {
			str := "%s: proxy address '%s' is invalid: %s"
			err := errors.Errorf(str, funcName, cfg.Proxy, err)
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintln(os.Stderr, usageMessage)
			return nil, nil, err
		}

		proxy := &socks.Proxy{
			Addr:     cfg.Proxy,
			Username: cfg.ProxyUser,
			Password: cfg.ProxyPass,
		}
		cfg.Dial = proxy.DialTimeout
	}

	// Warn about missing config file only after all other configuration is
	// done. This prevents the warning on help messages and invalid options.
	// Note this should go directly before the return.
	if configFileError != nil {
		log.Warnf("%s", configFileError)
	}

	return cfg, remainingArgs, nil
}

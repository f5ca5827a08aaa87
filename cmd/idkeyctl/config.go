package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btclog"
	"github.com/czh0526/idkeystore/identity"
	"github.com/czh0526/idkeystore/netparams"
)

const (
	defaultLogLevel    = "info"
	defaultLogDirname  = "logs"
	defaultLogFilename = "idkeyctl.log"
)

var (
	defaultAppDataDir = btcutil.AppDataDir("idkeyctl", false)
	defaultLogDir     = filepath.Join(defaultAppDataDir, defaultLogDirname)
)

// config holds the options shared by every command.
type config struct {
	DebugLevel    string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	LogDir        string `long:"logdir" description:"Directory to log output."`
	NoFileLogging bool   `long:"nofilelogging" description:"Disable file logging."`
	TestNet3      bool   `long:"testnet" description:"Use the test network (default mainnet)"`
	SimNet        bool   `long:"simnet" description:"Use the simulation test network (default mainnet)"`
}

var (
	cfg       = defaultConfig()
	activeNet = &netparams.MainNetParams

	// configured is set once setup has applied cfg.
	configured bool
)

func defaultConfig() config {
	return config{
		DebugLevel: defaultLogLevel,
		LogDir:     defaultLogDir,
	}
}

// setup applies the parsed global options: it selects the network,
// starts file logging and sets the log levels. Commands call it before
// doing any work.
func setup() error {
	if configured {
		return nil
	}

	numNets := 0
	activeNet = &netparams.MainNetParams
	if cfg.TestNet3 {
		numNets++
		activeNet = &netparams.TestNetParams
	}
	if cfg.SimNet {
		numNets++
		activeNet = &netparams.SimNetParams
	}
	if numNets > 1 {
		return fmt.Errorf("the testnet and simnet params can't be " +
			"used together -- choose one")
	}

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Fprintln(stdout, "Supported subsystems", supportedSubsystems())
		return errShowSubsystems
	}

	if !cfg.NoFileLogging {
		logDir := cleanAndExpandPath(cfg.LogDir)
		logDir = filepath.Join(logDir, strings.ToLower(activeNet.Name))
		if err := initLogRotator(filepath.Join(logDir, defaultLogFilename)); err != nil {
			return err
		}
	}

	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return err
	}

	configured = true
	log.Debugf("Using %s network, root chain %s", activeNet.Name,
		activeNet.RootChainName)
	return nil
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(defaultAppDataDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}
	return filepath.Clean(path)
}

// validLogLevel returns whether or not logLevel is a valid debug log level.
func validLogLevel(logLevel string) bool {
	_, ok := btclog.LevelFromString(logLevel)
	return ok
}

// parseAndSetDebugLevels attempts to parse the specified debug level and set
// the levels accordingly.  An appropriate error is returned if anything is
// invalid.
func parseAndSetDebugLevels(debugLevel string) error {
	// When the specified string doesn't have any delimters, treat it as
	// the log level for all subsystems.
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		// Validate debug log level.
		if !validLogLevel(debugLevel) {
			str := "the specified debug level [%v] is invalid"
			return fmt.Errorf(str, debugLevel)
		}

		// Change the logging level for all subsystems.
		setLogLevels(debugLevel)

		return nil
	}

	// Split the specified string into subsystem/level pairs while detecting
	// issues and update the log levels accordingly.
	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		if !strings.Contains(logLevelPair, "=") {
			str := "the specified debug level contains an invalid " +
				"subsystem/level pair [%v]"
			return fmt.Errorf(str, logLevelPair)
		}

		// Extract the specified subsystem and log level.
		fields := strings.Split(logLevelPair, "=")
		subsysID, logLevel := fields[0], fields[1]

		// Validate subsystem.
		if _, exists := subsystemLoggers[subsysID]; !exists {
			str := "the specified subsystem [%v] is invalid -- " +
				"supported subsytems %v"
			return fmt.Errorf(str, subsysID, supportedSubsystems())
		}

		// Validate log level.
		if !validLogLevel(logLevel) {
			str := "the specified debug level [%v] is invalid"
			return fmt.Errorf(str, logLevel)
		}

		setLogLevel(subsysID, logLevel)
	}

	return nil
}

// parseID decodes an optional hex encoded identity ID.
func parseID(s string) (identity.ID, error) {
	if s == "" {
		return identity.ID{}, nil
	}
	return identity.IDFromString(s)
}

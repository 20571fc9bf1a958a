package main

import (
	"flag"
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

const (
	environmentVariableHTTPPort     = "HTTP_PORT"
	environmentVariableHTTPSPort    = "HTTPS_PORT"
	environmentVariablePort         = "PORT"
	environmentVariableWordsFile    = "WORDS_FILE"
	environmentVariableRedisURL     = "REDIS_URL"
	environmentVariableCacheSec     = "CACHE_SECONDS"
	environmentVariableWorkers      = "WORKERS"
	environmentVariableTokenSec     = "TOKEN_SECONDS"
	environmentVariableTLSCertFile  = "TLS_CERT_FILE"
	environmentVariableTLSKeyFile   = "TLS_KEY_FILE"
	environmentVariableACMEHosts    = "ACME_HOSTS"
	environmentVariableACMECacheDir = "ACME_CACHE_DIR"
	environmentVariableDebug        = "DEBUG"
)

// mainFlags are the configuration options which can be easly configured at run startup for different environments.
type mainFlags struct {
	httpPort     int
	httpsPort    int
	wordsFile    string
	redisURL     string
	cacheSec     int
	workers      int
	tokenSec     int
	tlsCertFile  string
	tlsKeyFile   string
	acmeHosts    string
	acmeCacheDir string
	debug        bool
}

const (
	defaultHTTPPort int = 8000
	defaultCacheSec int = 60 * 60      // 1 hour
	defaultTokenSec int = 60 * 60 * 24 // 1 day
)

// usage prints how to run the server to the flagset's output.
func usage(fs *flag.FlagSet) {
	envVars := []string{
		environmentVariableHTTPPort,
		environmentVariableHTTPSPort,
		environmentVariablePort,
		environmentVariableWordsFile,
		environmentVariableRedisURL,
		environmentVariableCacheSec,
		environmentVariableWorkers,
		environmentVariableTokenSec,
		environmentVariableTLSCertFile,
		environmentVariableTLSKeyFile,
		environmentVariableACMEHosts,
		environmentVariableACMECacheDir,
		environmentVariableDebug,
	}
	fmt.Fprintf(fs.Output(), "Runs the boggle word server\n")
	fmt.Fprintf(fs.Output(), "Reads environment variables when possible: [%s]\n", strings.Join(envVars, ","))
	fmt.Fprintf(fs.Output(), "Usage of %s:\n", fs.Name())
	fs.PrintDefaults()
}

// newFlagSet creates a flagSet that populates the specified mainFlags.
func (m *mainFlags) newFlagSet(osLookupEnvFunc func(string) (string, bool), portOverride *int) *flag.FlagSet {
	fs := flag.NewFlagSet("main", flag.ExitOnError)
	fs.Usage = func() {
		usage(fs) // [lazy evaluation]
	}
	envValue := func(key string) string {
		if envValue, ok := osLookupEnvFunc(key); ok {
			return envValue
		}
		return ""
	}
	envValueInt := func(key string, defaultValue int) int {
		v1 := envValue(key)
		v2, err := strconv.Atoi(v1)
		if err != nil {
			return defaultValue
		}
		return v2
	}
	envPresent := func(key string) bool {
		_, ok := osLookupEnvFunc(key)
		return ok
	}
	fs.IntVar(&m.httpPort, "http-port", envValueInt(environmentVariableHTTPPort, defaultHTTPPort), "The TCP port for server http requests.  Traffic is redirected to the https port when it is set.")
	fs.IntVar(&m.httpsPort, "https-port", envValueInt(environmentVariableHTTPSPort, 0), "The TCP port for server https requests.  Requires TLS files or ACME hosts.")
	fs.IntVar(portOverride, "port", envValueInt(environmentVariablePort, 0), "The single port to serve plain http on.  Overrides the -http-port flag and disables https.")
	fs.StringVar(&m.wordsFile, "words-file", envValue(environmentVariableWordsFile), "The whitespace separated list of words to look for when requests do not list words.")
	fs.StringVar(&m.redisURL, "redis-url", envValue(environmentVariableRedisURL), "The redis url to cache found words in.  Words are cached in memory when missing.")
	fs.IntVar(&m.cacheSec, "cache-sec", envValueInt(environmentVariableCacheSec, defaultCacheSec), "The number of seconds found words are cached.  Zero only shares results between concurrent requests.")
	fs.IntVar(&m.workers, "workers", envValueInt(environmentVariableWorkers, runtime.NumCPU()), "The maximum number of words checked at the same time for a request.")
	fs.IntVar(&m.tokenSec, "token-sec", envValueInt(environmentVariableTokenSec, defaultTokenSec), "The number of seconds board tokens are valid.")
	fs.StringVar(&m.tlsCertFile, "tls-cert-file", envValue(environmentVariableTLSCertFile), "The absolute path of the certificate file to use for TLS.")
	fs.StringVar(&m.tlsKeyFile, "tls-key-file", envValue(environmentVariableTLSKeyFile), "The absolute path of the key file to use for TLS.")
	fs.StringVar(&m.acmeHosts, "acme-hosts", envValue(environmentVariableACMEHosts), "The comma separated host names to automatically get TLS certificates for.  Used instead of the TLS files.")
	fs.StringVar(&m.acmeCacheDir, "acme-cache-dir", envValue(environmentVariableACMECacheDir), "The directory to store automatically created certificates in.")
	fs.BoolVar(&m.debug, "debug", envPresent(environmentVariableDebug), "Logs each word that is checked and each word read from websockets.")
	return fs
}

// newMainFlags creates a new, populated mainFlags structure.
// Fields are populated from command line arguments.
// If fields are not specified on the command line, environment variable values are used before defaulting to other defaults.
func newMainFlags(osArgs []string, osLookupEnvFunc func(string) (string, bool)) mainFlags {
	if len(osArgs) == 0 {
		osArgs = []string{""}
	}
	programArgs := osArgs[1:]
	var m mainFlags
	var portOverride int
	fs := m.newFlagSet(osLookupEnvFunc, &portOverride)
	fs.Parse(programArgs)
	if portOverride != 0 {
		m.httpPort = portOverride
		m.httpsPort = 0
	}
	return m
}

// hosts splits the acme hosts flag.
func (m mainFlags) hosts() []string {
	var hosts []string
	for _, h := range strings.Split(m.acmeHosts, ",") {
		if h = strings.TrimSpace(h); len(h) != 0 {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

package config

import "strings"

// AppVersion is the version of the service.
var AppVersion string // Or get it from version.txt during build

// AppName is the name of the service.
const AppName = "SmartRes"

// LogWinSubDir is the sub directory for the log files on windows.
var LogWinSubDir = AppName

// LogSubDir is the sub directory for the log files.
var LogSubDir = "." + strings.ToLower(AppName)

// LogExt is the file extension used for log files.
const LogExt = ".log"

// DefaultListenAddr is the loopback address the host API binds to.
const DefaultListenAddr = "127.0.0.1:49453"

// DefaultCacheTTLMillis is the result cache validity window in milliseconds.
const DefaultCacheTTLMillis = 100

// DefaultDivisor is the divisibility used when snapping preview dimensions.
const DefaultDivisor = 16

// DefaultDropdownRatio is the aspect ratio label used when none is configured.
const DefaultDropdownRatio = "16:9 (Panorama)"

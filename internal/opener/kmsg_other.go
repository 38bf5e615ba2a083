//go:build !linux

package opener

import "os"

func openProcKmsg(string) (*os.File, error) { return nil, ErrUnsupportedPlatform }

func openDevKmsg(string) (*os.File, error) { return nil, ErrUnsupportedPlatform }

func capabilityStatus() string { return "not supported (requires Linux)" }

//go:build !unix

package opener

import "os"

func openRegular(path string) (*os.File, error) {
	return os.Open(path)
}

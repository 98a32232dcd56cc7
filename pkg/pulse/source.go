package pulse

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/ident.go/pkg/framework"
)

// FileSource feeds transitions from a byte stream such as a named
// pipe or a character device bridging the physical line: every byte
// read is one observed level change, stamped at arrival. The single
// reader goroutine is the qualifier's only producer.
type FileSource struct {
	Qualifier *Qualifier
	// Now is the timestamp source, replaceable in tests.
	Now func() time.Time

	file *os.File
}

// OpenFileSource opens path for reading. Opening a FIFO blocks until
// a writer shows up.
func OpenFileSource(path string, q *Qualifier) (*FileSource, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	return &FileSource{Qualifier: q, Now: time.Now, file: f}, nil
}

// Name implements Named.
func (s *FileSource) Name() string { return "pulse-source" }

// Run implements Runnable.
func (s *FileSource) Run(ctx context.Context) error {
	return fx.RunWithContextCloser(ctx, s.file, func() error {
		buf := make([]byte, 1)
		for {
			n, err := s.file.Read(buf)
			if err == io.EOF {
				// FIFO writer went away; wait for the next one
				time.Sleep(10 * time.Millisecond)
				continue
			}
			if err != nil {
				return err
			}
			if n > 0 {
				glog.V(4).Info("edge transition")
				s.Qualifier.Transition(s.Now())
			}
		}
	})
}

package uploader

import "io"

// ProgressFunc receives the fraction of bytes sent so far, in [0, 1].
type ProgressFunc func(fraction float64)

// progressReader reports read progress while streaming a request body.
type progressReader struct {
	reader   io.Reader
	total    int64
	read     int64
	progress ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.read += int64(n)
		if pr.progress != nil && pr.total > 0 {
			pr.progress(float64(pr.read) / float64(pr.total))
		}
	}
	return n, err
}

package convert

import (
	"fmt"

	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"
)

// Operation converts one input file
type Operation func(c Converter, input string) (*Result, error)

// FileError is a failed input of a batch
type FileError struct {
	Input string
	Err   error
}

// BatchResult collects the outcome of a batch run
type BatchResult struct {
	RunID     string
	Succeeded []*Result
	Failed    []FileError
}

// Err summarizes the failures of the run, or returns nil
func (b *BatchResult) Err() error {
	if len(b.Failed) == 0 {
		return nil
	}
	if len(b.Failed) == 1 {
		return b.Failed[0].Err
	}
	return fmt.Errorf("%d of %d files failed", len(b.Failed), len(b.Failed)+len(b.Succeeded))
}

// RunBatch applies op to every input in order. A failed input is logged and
// recorded and the run moves on to the next one. Every log entry of the run
// carries the run id and the input file.
func RunBatch(c Converter, logger logrus.FieldLogger, inputs []string, op Operation) *BatchResult {
	result := &BatchResult{RunID: ksuid.New().String()}
	runLogger := logger.WithField("run", result.RunID)

	for _, input := range inputs {
		entry := runLogger.WithField("file", input)

		res, err := op(c.WithLogger(entry), input)
		if err != nil {
			entry.WithError(err).Error("conversion failed")
			result.Failed = append(result.Failed, FileError{Input: input, Err: err})
			continue
		}

		entry.WithField("output", res.Output).Debug("conversion done")
		result.Succeeded = append(result.Succeeded, res)
	}

	runLogger.WithFields(logrus.Fields{
		"succeeded": len(result.Succeeded),
		"failed":    len(result.Failed),
	}).Debug("batch finished")

	return result
}

package internal

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// transcriptExt is the extension of assistant transcript log files.
const transcriptExt = ".jsonl"

// maxLineBytes bounds a single transcript line. Tool results embedding large
// file contents are the longest lines seen in practice; 10 MiB covers them.
const maxLineBytes = 10 * 1024 * 1024

// SessionRecords holds every record for one session id, merged across all
// transcript files in a project directory and sorted by timestamp with
// file-then-line position as the tie-break.
type SessionRecords struct {
	SessionID string
	Records   []*LogRecord
}

// transcriptFile pairs a transcript path with its modification time so files
// can be visited oldest-first; later files win uuid conflicts downstream.
type transcriptFile struct {
	path    string
	modTime int64
}

// listTranscriptFiles returns the transcript files directly under dir,
// sorted by modification time ascending, names breaking ties. A missing or
// non-directory path surfaces as a NotFoundError so HTTP callers can map it
// to 404 rather than a generic failure.
func listTranscriptFiles(dir string) ([]transcriptFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Resource: "project", Key: filepath.Base(dir)}
		}
		return nil, &StorageError{Path: dir, Op: "stat", Err: err}
	}
	if !info.IsDir() {
		return nil, &NotFoundError{Resource: "project", Key: filepath.Base(dir)}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &StorageError{Path: dir, Op: "read", Err: err}
	}

	var files []transcriptFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), transcriptExt) {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			// File vanished between ReadDir and Info; skip it.
			continue
		}
		files = append(files, transcriptFile{
			path:    filepath.Join(dir, entry.Name()),
			modTime: fi.ModTime().UnixNano(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].modTime != files[j].modTime {
			return files[i].modTime < files[j].modTime
		}
		return files[i].path < files[j].path
	})
	return files, nil
}

// ParseProjectDir reads every transcript file in a project directory and
// groups the parsed records by session id. Each returned set is sorted by
// timestamp, ties broken by original file-then-line position. Malformed
// lines are counted and skipped; they never abort the rest of the file. A
// file being appended to by a live request parses up to its last complete
// line.
func ParseProjectDir(dir string) ([]*SessionRecords, error) {
	files, err := listTranscriptFiles(dir)
	if err != nil {
		return nil, err
	}

	bySession := make(map[string]*SessionRecords)
	for fileSeq, f := range files {
		if err := parseTranscriptFile(f.path, fileSeq, bySession); err != nil {
			return nil, err
		}
	}

	sets := make([]*SessionRecords, 0, len(bySession))
	for _, set := range bySession {
		sortRecords(set.Records)
		sets = append(sets, set)
	}
	sort.Slice(sets, func(i, j int) bool {
		return sets[i].SessionID < sets[j].SessionID
	})
	return sets, nil
}

// parseTranscriptFile streams one file line by line, accumulating valid
// records into bySession. Memory use is bounded by maxLineBytes, not the file
// size: a line beyond the cap is skipped like any other malformed line rather
// than failing the file.
func parseTranscriptFile(path string, fileSeq int, bySession map[string]*SessionRecords) error {
	file, err := os.Open(path)
	if err != nil {
		return &StorageError{Path: path, Op: "open", Err: err}
	}
	defer file.Close()

	reader := bufio.NewReaderSize(file, 64*1024)

	lineNo := 0
	skipped := 0
	for {
		line, oversized, err := readTranscriptLine(reader)
		if err != nil && err != io.EOF {
			return &StorageError{Path: path, Op: "read", Err: err}
		}
		lineNo++

		switch {
		case oversized:
			skipped++
			LogDebug("Skipping oversized line %s:%d", path, lineNo)
		case len(line) > 0:
			rec, perr := ParseLogLine(line)
			if perr != nil {
				skipped++
				LogDebug("Skipping malformed line %s:%d: %v", path, lineNo, perr)
				break
			}
			rec.fileSeq = fileSeq
			rec.lineSeq = lineNo

			set, ok := bySession[rec.SessionID]
			if !ok {
				set = &SessionRecords{SessionID: rec.SessionID}
				bySession[rec.SessionID] = set
			}
			set.Records = append(set.Records, rec)
		}

		if err == io.EOF {
			break
		}
	}

	if skipped > 0 {
		LogWarn("Skipped %d malformed line(s) in %s", skipped, path)
	}
	return nil
}

// readTranscriptLine reads one newline-terminated line, holding at most
// maxLineBytes in memory. A longer line is discarded through its terminating
// newline and reported as oversized instead of being returned. The error is
// io.EOF on the final line, nil otherwise.
func readTranscriptLine(r *bufio.Reader) (line []byte, oversized bool, err error) {
	for {
		chunk, err := r.ReadSlice('\n')
		if !oversized {
			line = append(line, chunk...)
		}
		if err == bufio.ErrBufferFull {
			if len(line) > maxLineBytes+1 {
				oversized = true
				line = nil
			}
			continue
		}
		if !oversized {
			line = bytes.TrimSuffix(line, []byte{'\n'})
			line = bytes.TrimSuffix(line, []byte{'\r'})
			if len(line) > maxLineBytes {
				oversized = true
				line = nil
			}
		}
		if oversized {
			return nil, true, err
		}
		return line, false, err
	}
}

// sortRecords orders records by timestamp ascending with the original disk
// position as a stable, deterministic tie-break.
func sortRecords(records []*LogRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		if a.fileSeq != b.fileSeq {
			return a.fileSeq < b.fileSeq
		}
		return a.lineSeq < b.lineSeq
	})
}

package zdd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/geotier/solver/pkg/errors"
)

// DumpSapporo writes dd in a compact line-oriented format: a node count,
// one "id level lo hi" line per node in bottom-up order, then the root
// id. It is meant for archival and round-tripping, not human inspection
// (use DumpDot for that).
func DumpSapporo(w io.Writer, dd *Zdd) error {
	if _, err := fmt.Fprintf(w, "%d\n", len(dd.Nodes)); err != nil {
		return err
	}
	for i, n := range dd.Nodes {
		id := i + 2
		if _, err := fmt.Fprintf(w, "%d %d %d %d\n", id, n.Level, n.Lo, n.Hi); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d\n", dd.Root)
	return err
}

// LoadSapporo reads back a Zdd written by DumpSapporo.
func LoadSapporo(r io.Reader) (*Zdd, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	readLine := func() (string, bool) {
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			return line, true
		}
		return "", false
	}

	countLine, ok := readLine()
	if !ok {
		return nil, apperrors.Wrap(apperrors.CodeJSONParse, "empty zdd export", nil)
	}
	count, err := strconv.Atoi(countLine)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeJSONParse, "invalid node count in zdd export", err)
	}

	nodes := make([]Node, count)
	for i := 0; i < count; i++ {
		line, ok := readLine()
		if !ok {
			return nil, apperrors.Wrap(apperrors.CodeJSONParse, fmt.Sprintf("missing node line %d in zdd export", i), nil)
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, apperrors.Wrap(apperrors.CodeJSONParse, fmt.Sprintf("malformed node line %q in zdd export", line), nil)
		}
		id, errID := strconv.Atoi(fields[0])
		level, errLevel := strconv.Atoi(fields[1])
		lo, errLo := strconv.Atoi(fields[2])
		hi, errHi := strconv.Atoi(fields[3])
		if errID != nil || errLevel != nil || errLo != nil || errHi != nil {
			return nil, apperrors.Wrap(apperrors.CodeJSONParse, fmt.Sprintf("malformed node line %q in zdd export", line), nil)
		}
		if id != i+2 {
			return nil, apperrors.Wrap(apperrors.CodeJSONParse, fmt.Sprintf("out-of-order node id %d in zdd export", id), nil)
		}
		nodes[i] = Node{Level: int32(level), Lo: NodeID(lo), Hi: NodeID(hi)}
	}

	rootLine, ok := readLine()
	if !ok {
		return nil, apperrors.Wrap(apperrors.CodeJSONParse, "missing root id in zdd export", nil)
	}
	root, err := strconv.Atoi(rootLine)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeJSONParse, "invalid root id in zdd export", err)
	}

	if err := scanner.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeJSONParse, "reading zdd export", err)
	}
	return &Zdd{Root: NodeID(root), Nodes: nodes}, nil
}

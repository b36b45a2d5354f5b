package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/encodeous/ripsim/state"
)

// File appends timestamped snapshot sections to a log file. A banner is
// written once, when the file is first created; reruns keep appending below
// the existing history.
type File struct {
	f *os.File
}

func NewFile(path string) (*File, error) {
	_, statErr := os.Stat(path)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", path, err)
	}
	r := &File{f: f}
	if statErr != nil && os.IsNotExist(statErr) {
		if err := r.writeBanner(); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write log banner: %w", err)
		}
	}
	return r, nil
}

func (r *File) writeBanner() error {
	var b strings.Builder
	b.WriteString("Distance Vector Routing Simulation Log\n")
	b.WriteString(strings.Repeat("=", 40) + "\n")
	b.WriteString("This file contains the routing tables and events recorded during the simulation.\n")
	b.WriteString("Each entry includes a timestamp and a description of the event.\n")
	b.WriteString(strings.Repeat("=", 40) + "\n\n")
	_, err := r.f.WriteString(b.String())
	return err
}

func (r *File) Report(event string, snap state.NetworkSnapshot) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\n[%s] %s\n", time.Now().Format(time.DateTime), event)
	b.WriteString(strings.Repeat("-", 40) + "\n")
	for _, node := range snap.Nodes {
		writeTable(&b, node)
	}
	_, err := r.f.WriteString(b.String())
	return err
}

func (r *File) Close() error {
	return r.f.Close()
}

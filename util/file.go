package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// takes a save path and a variable number of strings and writes them to file separated by new lines
func WriteToFile(savePath string, content ...string) error {
	if err := os.MkdirAll(filepath.Dir(savePath), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(savePath, []byte(strings.Join(content, "\n")+"\n"), 0644)
}

func AppendToFile(savePath string, content ...string) error {
	f, err := os.OpenFile(savePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return err
	}

	defer f.Close()

	for _, s := range content {
		if _, err = f.WriteString(s + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV writes a header row followed by data rows, comma separated.
func WriteCSV(savePath string, header []string, rows [][]string) error {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(header, ","))
	for _, row := range rows {
		lines = append(lines, strings.Join(row, ","))
	}
	return WriteToFile(savePath, lines...)
}

// AtomicWriteFile writes to a temporary file in the same directory and
// renames it over the target, so a failed write never clobbers a prior
// valid file.
func AtomicWriteFile(savePath string, data []byte) error {
	dir := filepath.Dir(savePath)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(savePath)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, savePath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", savePath, err)
	}
	return nil
}

package util

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// CreateCBZ packs files into a CBZ archive in the given order. Entries are
// prefixed with their position so readers that sort by name keep it.
func CreateCBZ(files []string, output string) (err error) {
	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("cbz: %w", err)
	}

	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("cbz: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(output)
		}
	}()

	z := zip.NewWriter(out)
	width := len(fmt.Sprint(len(files)))

	for i, file := range files {
		name := fmt.Sprintf("%0*d_%s", width, i+1, filepath.Base(file))
		if err := addFileToZip(z, file, name); err != nil {
			_ = z.Close()
			return fmt.Errorf("cbz: %w", err)
		}
	}

	if err := z.Close(); err != nil {
		return fmt.Errorf("cbz: %w", err)
	}

	return nil
}

func addFileToZip(z *zip.Writer, file, name string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Printf("error closing input file %s: %v", file, cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}

	header.Name = name
	// PNG data is already deflated
	header.Method = zip.Store

	w, err := z.CreateHeader(header)
	if err != nil {
		return err
	}

	_, err = io.Copy(w, f)
	return err
}

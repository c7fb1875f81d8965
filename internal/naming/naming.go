// Package naming derives a collision-free output path for a clip.
package naming

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ElijahAhianyo/yle-dl/internal/backends"
	"github.com/ElijahAhianyo/yle-dl/internal/filesystem"
	"github.com/ElijahAhianyo/yle-dl/internal/ioctx"
	"github.com/ElijahAhianyo/yle-dl/internal/log"
	"github.com/ElijahAhianyo/yle-dl/internal/media"
)

// defaultBasename is used when a clip has no title at all.
const defaultBasename = "ylestream"

var whitespaceRun = regexp.MustCompile(`\s+`)

// OutputFileName resolves the output path for a clip. An explicit output
// template wins over title-based naming. resumeJob skips the collision probe
// so an interrupted download continues into the same file.
func OutputFileName(clip media.Clip, ext backends.FileExtension, io ioctx.IOContext, resumeJob bool) string {
	if io.OutputFilename != "" {
		return filenameFromTemplate(io.OutputFilename, ext)
	}
	return filenameFromTitle(clip.Title, ext, io, resumeJob)
}

func filenameFromTemplate(template string, ext backends.FileExtension) string {
	if ext.Mandatory {
		return replaceExtension(template, ext.Ext)
	}
	return appendExtIfMissing(template, ext.Ext)
}

func replaceExtension(filename, ext string) string {
	oldExt := filepath.Ext(filename)
	if oldExt == ext {
		return filename
	}
	if oldExt != "" {
		log.Warnf("Unsupported extension %s. Replacing it with %s", oldExt, ext)
	}
	return strings.TrimSuffix(filename, oldExt) + ext
}

func appendExtIfMissing(filename, ext string) string {
	if strings.Contains(filepath.Base(filename), ".") {
		return filename
	}
	return filename + ext
}

func filenameFromTitle(title string, ext backends.FileExtension, io ioctx.IOContext, resumeJob bool) string {
	filename := SaneFilename(title, io.ExcludeChars) + ext.Ext
	if io.DestDir != "" {
		filename = filepath.Join(io.DestDir, filename)
	}
	if !resumeJob {
		filename = nextAvailableFilename(filename)
	}
	return filename
}

// SaneFilename collapses whitespace and replaces the excluded characters
// with underscores. An empty title falls back to a fixed basename.
func SaneFilename(title, excludeChars string) string {
	name := whitespaceRun.ReplaceAllString(title, " ")
	name = strings.Trim(name, " .")
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(excludeChars, r) {
			return '_'
		}
		return r
	}, name)
	if name == "" {
		return defaultBasename
	}
	return name
}

// nextAvailableFilename probes the filesystem and appends -1, -2, ... before
// the extension until the path is free.
func nextAvailableFilename(proposed string) string {
	fs := filesystem.API()
	ext := filepath.Ext(proposed)
	basename := strings.TrimSuffix(proposed, ext)

	filename := proposed
	for i := 1; ; i++ {
		exists, err := fs.Exists(filename)
		if err != nil || !exists {
			return filename
		}
		log.Infof("%s exists, trying an alternative name", filename)
		filename = fmt.Sprintf("%s-%d%s", basename, i, ext)
	}
}

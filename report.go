package onestore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/juju/errors"
	"github.com/tidwall/gjson"
)

// Report sections selectable through ReportOptions.Include.
var ReportSections = []string{"headers", "properties", "files", "links", "diagnostics"}

// ReportOptions controls what the JSON report carries.
type ReportOptions struct {
	// Include selects sections; empty means all of ReportSections.
	Include []string
	// FilesNoContent omits payload bytes from the files section and reports
	// a SHA-256 digest instead.
	FilesNoContent bool
}

func (o ReportOptions) wants(section string) bool {
	if len(o.Include) == 0 {
		return true
	}
	for _, s := range o.Include {
		if strings.EqualFold(strings.TrimSpace(s), section) {
			return true
		}
	}
	return false
}

// Validate rejects unknown section names early, before a parse is attempted.
func (o ReportOptions) Validate() error {
	for _, s := range o.Include {
		known := false
		for _, k := range ReportSections {
			if strings.EqualFold(strings.TrimSpace(s), k) {
				known = true
				break
			}
		}
		if !known {
			return errors.Errorf("unknown report section %q (known: %s)",
				s, strings.Join(ReportSections, ", "))
		}
	}
	return nil
}

// BuildReport renders the parsed document as a JSON report.
func BuildReport(d *Document, opts ReportOptions) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	report := make(map[string]interface{})
	if opts.wants("headers") {
		report["headers"] = headersSection(d.Header)
	}
	if opts.wants("properties") {
		report["properties"] = d.Properties()
	}
	if opts.wants("files") {
		report["files"] = filesSection(d, opts)
	}
	if opts.wants("links") {
		report["links"] = d.Links()
	}
	if opts.wants("diagnostics") {
		report["diagnostics"] = diagnosticsSection(d)
	}
	out, err := json.Marshal(report)
	if err != nil {
		return nil, errors.Annotate(err, "marshal report")
	}
	return out, nil
}

func headersSection(h *Header) map[string]interface{} {
	if h == nil {
		return nil
	}
	return map[string]interface{}{
		"fileType":                              h.FileType.String(),
		"guidFileType":                          h.GuidFileType.String(),
		"guidFile":                              h.GuidFile.String(),
		"guidLegacyFileVersion":                 h.GuidLegacyFileVersion.String(),
		"guidFileFormat":                        h.GuidFileFormat.String(),
		"ffvLastCodeThatWroteToThisFile":        h.FfvLastCodeThatWroteToThisFile,
		"ffvOldestCodeThatHasWrittenToThisFile": h.FfvOldestCodeThatHasWrittenToThisFile,
		"ffvNewestCodeThatHasWrittenToThisFile": h.FfvNewestCodeThatHasWrittenToThisFile,
		"ffvOldestCodeThatMayReadThisFile":      h.FfvOldestCodeThatMayReadThisFile,
		"cTransactionsInLog":                    h.CTransactionsInLog,
		"guidAncestor":                          h.GuidAncestor.String(),
		"crcName":                               h.CrcName,
		"fcrHashedChunkList":                    h.FcrHashedChunkList.String(),
		"fcrTransactionLog":                     h.FcrTransactionLog.String(),
		"fcrFileNodeListRoot":                   h.FcrFileNodeListRoot.String(),
		"fcrFreeChunkList":                      h.FcrFreeChunkList.String(),
		"cbExpectedFileLength":                  h.CbExpectedFileLength,
		"cbFreeSpaceInFreeChunkList":            h.CbFreeSpaceInFreeChunkList,
		"guidFileVersion":                       h.GuidFileVersion.String(),
		"nFileVersionGeneration":                h.NFileVersionGeneration,
		"guidDenyReadFileVersion":               h.GuidDenyReadFileVersion.String(),
		"grfDebugLogFlags":                      h.GrfDebugLogFlags,
		"bnCreated":                             h.BnCreated,
		"bnLastWroteToThisFile":                 h.BnLastWroteToThisFile,
		"bnOldestWritten":                       h.BnOldestWritten,
		"bnNewestWritten":                       h.BnNewestWritten,
	}
}

func filesSection(d *Document, opts ReportOptions) map[string]interface{} {
	files := make(map[string]interface{})
	for _, f := range d.Files() {
		entry := map[string]interface{}{
			"extension": f.Extension,
			"identity":  f.Identity,
			"size":      len(f.Content()),
		}
		if f.SuggestedName != "" {
			entry["suggestedName"] = f.SuggestedName
		}
		if opts.FilesNoContent {
			digest := sha256.Sum256(f.Content())
			entry["sha256"] = hex.EncodeToString(digest[:])
		} else {
			entry["content"] = hex.EncodeToString(f.Content())
		}
		files[f.GUID] = entry
	}
	return files
}

func diagnosticsSection(d *Document) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(d.Diagnostics))
	for _, diag := range d.Diagnostics {
		out = append(out, map[string]interface{}{
			"kind":    diag.Kind.String(),
			"offset":  diag.Offset,
			"message": diag.Message,
		})
	}
	return out
}

// TextReport renders the human-readable listing from a JSON report, the
// sections laid out the way the original tool prints them.
func TextReport(reportJSON []byte) string {
	var b strings.Builder
	root := gjson.ParseBytes(reportJSON)

	if headers := root.Get("headers"); headers.Exists() {
		b.WriteString("Headers\n####################################################################\n")
		headers.ForEach(func(key, value gjson.Result) bool {
			fmt.Fprintf(&b, "\t%s: %s\n", key.String(), value.String())
			return true
		})
	}

	if props := root.Get("properties"); props.Exists() {
		b.WriteString("\n\nProperties\n####################################################################\n")
		props.ForEach(func(_, bag gjson.Result) bool {
			fmt.Fprintf(&b, "\t%s(%s):\n", bag.Get("type").String(), bag.Get("identity").String())
			bag.Get("val").ForEach(func(key, value gjson.Result) bool {
				fmt.Fprintf(&b, "\t\t%s: %s\n", key.String(), value.String())
				return true
			})
			b.WriteString("\n")
			return true
		})
	}

	if links := root.Get("links"); links.Exists() {
		b.WriteString("\n\nLinks\n####################################################################\n")
		links.ForEach(func(_, link gjson.Result) bool {
			fmt.Fprintf(&b, "\t%s (%s): %s\n",
				link.Get("url").String(), link.Get("source").String(), link.Get("identity").String())
			return true
		})
	}

	if files := root.Get("files"); files.Exists() {
		b.WriteString("\n\nEmbedded Files\n####################################################################\n")
		files.ForEach(func(guid, file gjson.Result) bool {
			fmt.Fprintf(&b, "\t%s (%s):\n", guid.String(), file.Get("identity").String())
			fmt.Fprintf(&b, "\t\tExtension: %s\n", file.Get("extension").String())
			if name := file.Get("suggestedName"); name.Exists() {
				fmt.Fprintf(&b, "\t\tName: %s\n", name.String())
			}
			if digest := file.Get("sha256"); digest.Exists() {
				fmt.Fprintf(&b, "\t\tSHA-256: %s\n", digest.String())
			} else {
				b.WriteString(hexPreview(file.Get("content").String(), 16, "\t\t"))
			}
			return true
		})
	}

	if diags := root.Get("diagnostics"); diags.Exists() && len(diags.Array()) > 0 {
		b.WriteString("\n\nDiagnostics\n####################################################################\n")
		diags.ForEach(func(_, diag gjson.Result) bool {
			fmt.Fprintf(&b, "\t[%s] offset 0x%X: %s\n",
				diag.Get("kind").String(), diag.Get("offset").Uint(), diag.Get("message").String())
			return true
		})
	}
	return b.String()
}

// hexPreview formats up to 256 bytes of hex content into columns.
func hexPreview(hexStr string, cols int, indent string) string {
	if len(hexStr) > 512 {
		hexStr = hexStr[:512]
	}
	var b strings.Builder
	chars := cols * 2
	for i := 0; i < len(hexStr); i += chars {
		end := i + chars
		if end > len(hexStr) {
			end = len(hexStr)
		}
		segment := hexStr[i:end]
		b.WriteString(indent)
		for j := 0; j < len(segment); j += 2 {
			if j > 0 {
				b.WriteString(" ")
			}
			b.WriteString(segment[j:min(j+2, len(segment))])
		}
		b.WriteString("\n")
	}
	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

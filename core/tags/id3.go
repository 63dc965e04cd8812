package tags

import (
	"fmt"

	"github.com/bogem/id3v2/v2"
)

// frameIDs maps the friendly field names used in the ID3 table to ID3v2.4
// frame IDs. Names without an entry are skipped by both read and write.
var frameIDs = map[string]string{
	"title":        "TIT2",
	"artist":       "TPE1",
	"album":        "TALB",
	"albumartist":  "TPE2",
	"composer":     "TCOM",
	"genre":        "TCON",
	"copyright":    "TCOP",
	"publisher":    "TPUB",
	"lyricist":     "TEXT",
	"conductor":    "TPE3",
	"remixer":      "TPE4",
	"author":       "TOLY",
	"isrc":         "TSRC",
	"language":     "TLAN",
	"discsubtitle": "TSST",
	"mood":         "TMOO",
	"version":      "TIT3",
	"year":         "TDRC",
	"tracknumber":  "TRCK",
}

func readID3(path string) (map[string][]string, error) {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("open ID3 tag: %w", err)
	}
	defer t.Close()

	values := make(map[string][]string)
	for name, fid := range frameIDs {
		if text := t.GetTextFrame(fid).Text; text != "" {
			values[name] = []string{text}
		}
	}

	for _, f := range t.GetFrames(t.CommonID("Comments")) {
		if cf, ok := f.(id3v2.CommentFrame); ok && cf.Text != "" {
			values["comment"] = append(values["comment"], cf.Text)
		}
	}
	for _, f := range t.GetFrames(t.CommonID("Unsynchronised lyrics/text transcription")) {
		if lf, ok := f.(id3v2.UnsynchronisedLyricsFrame); ok && lf.Lyrics != "" {
			values["lyrics"] = append(values["lyrics"], lf.Lyrics)
		}
	}
	return values, nil
}

func writeID3(path string, changed map[string][]string) error {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open ID3 tag: %w", err)
	}
	defer t.Close()
	t.SetVersion(4)

	for name, vals := range changed {
		switch name {
		case "comment":
			t.DeleteFrames(t.CommonID("Comments"))
			for _, v := range vals {
				t.AddCommentFrame(id3v2.CommentFrame{
					Encoding: id3v2.EncodingUTF8,
					Language: "eng",
					Text:     v,
				})
			}
		case "lyrics":
			t.DeleteFrames(t.CommonID("Unsynchronised lyrics/text transcription"))
			for _, v := range vals {
				t.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
					Encoding: id3v2.EncodingUTF8,
					Language: "eng",
					Lyrics:   v,
				})
			}
		default:
			fid := frameIDs[name]
			if fid == "" || len(vals) == 0 {
				continue
			}
			t.AddTextFrame(fid, id3v2.EncodingUTF8, vals[0])
		}
	}

	if err := t.Save(); err != nil {
		return fmt.Errorf("save ID3 tag: %w", err)
	}
	return nil
}

package tags

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"strings"
)

// FLAC Vorbis Comment block layout:
//   - 4 bytes vendor length (LE) + vendor string
//   - 4 bytes comment count (LE)
//   - for each comment: 4 bytes length (LE) + "KEY=VALUE"

const vorbisCommentBlock = 4

type flacBlock struct {
	blockType byte
	data      []byte
}

type vorbisComment struct {
	key   string // uppercase
	value string
}

func readFLAC(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	blocks, _, err := parseFLACBlocks(data)
	if err != nil {
		return nil, err
	}

	values := make(map[string][]string)
	for _, b := range blocks {
		if b.blockType != vorbisCommentBlock {
			continue
		}
		for _, c := range parseVorbisComments(b.data) {
			values[c.key] = append(values[c.key], c.value)
		}
	}
	return values, nil
}

func writeFLACTags(path string, changed map[string][]string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(data) < 4 || !bytes.Equal(data[0:4], []byte("fLaC")) {
		return fmt.Errorf("%s: not a valid FLAC file", path)
	}

	blocks, audioStart, err := parseFLACBlocks(data)
	if err != nil {
		return err
	}

	vcIdx := -1
	for i, b := range blocks {
		if b.blockType == vorbisCommentBlock {
			vcIdx = i
			break
		}
	}

	var comments []vorbisComment
	if vcIdx >= 0 {
		comments = parseVorbisComments(blocks[vcIdx].data)
	}

	// Replace every occurrence of a changed key in place, then append any
	// changed key the file did not carry yet.
	updated := make(map[string][]string, len(changed))
	for k, v := range changed {
		updated[strings.ToUpper(k)] = v
	}
	var merged []vorbisComment
	for _, c := range comments {
		if vals, ok := updated[c.key]; ok {
			for _, v := range vals {
				merged = append(merged, vorbisComment{key: c.key, value: v})
			}
			delete(updated, c.key)
			continue
		}
		merged = append(merged, c)
	}
	for k, vals := range updated {
		for _, v := range vals {
			merged = append(merged, vorbisComment{key: k, value: v})
		}
	}

	newVC := buildVorbisComment(merged)
	if vcIdx >= 0 {
		blocks[vcIdx].data = newVC
	} else {
		newBlock := flacBlock{blockType: vorbisCommentBlock, data: newVC}
		blocks = append([]flacBlock{blocks[0], newBlock}, blocks[1:]...)
	}

	return writeFLACStream(path, blocks, data[audioStart:])
}

func parseFLACBlocks(data []byte) ([]flacBlock, int, error) {
	if len(data) < 4 || !bytes.Equal(data[0:4], []byte("fLaC")) {
		return nil, 0, fmt.Errorf("not a valid FLAC file")
	}
	var blocks []flacBlock
	i := 4 // skip "fLaC"
	for i+4 <= len(data) {
		header := binary.BigEndian.Uint32(data[i : i+4])
		isLast := (header >> 31) == 1
		blockType := byte((header >> 24) & 0x7F)
		length := int(header & 0xFFFFFF)
		i += 4
		if i+length > len(data) {
			return nil, i, fmt.Errorf("FLAC block truncated")
		}
		blockData := append([]byte{}, data[i:i+length]...)
		blocks = append(blocks, flacBlock{blockType: blockType, data: blockData})
		i += length
		if isLast {
			break
		}
	}
	return blocks, i, nil
}

func parseVorbisComments(data []byte) []vorbisComment {
	if len(data) < 4 {
		return nil
	}
	vendorLen := int(binary.LittleEndian.Uint32(data[0:4]))
	pos := 4 + vendorLen
	if pos+4 > len(data) {
		return nil
	}
	count := int(binary.LittleEndian.Uint32(data[pos : pos+4]))
	pos += 4

	var comments []vorbisComment
	for i := 0; i < count && pos+4 <= len(data); i++ {
		cLen := int(binary.LittleEndian.Uint32(data[pos : pos+4]))
		pos += 4
		if pos+cLen > len(data) {
			break
		}
		comment := string(data[pos : pos+cLen])
		pos += cLen
		eq := strings.Index(comment, "=")
		if eq > 0 {
			comments = append(comments, vorbisComment{
				key:   strings.ToUpper(comment[:eq]),
				value: comment[eq+1:],
			})
		}
	}
	return comments
}

func buildVorbisComment(comments []vorbisComment) []byte {
	vendor := "audio-rtl-surgery"
	var buf bytes.Buffer
	le := binary.LittleEndian

	vLen := make([]byte, 4)
	le.PutUint32(vLen, uint32(len(vendor)))
	buf.Write(vLen)
	buf.WriteString(vendor)

	cntBuf := make([]byte, 4)
	le.PutUint32(cntBuf, uint32(len(comments)))
	buf.Write(cntBuf)

	for _, c := range comments {
		entry := c.key + "=" + c.value
		cLen := make([]byte, 4)
		le.PutUint32(cLen, uint32(len(entry)))
		buf.Write(cLen)
		buf.WriteString(entry)
	}
	return buf.Bytes()
}

func writeFLACStream(path string, blocks []flacBlock, audioData []byte) error {
	var buf bytes.Buffer
	buf.WriteString("fLaC")
	for i, b := range blocks {
		isLast := i == len(blocks)-1
		header := uint32(b.blockType)<<24 | uint32(len(b.data))
		if isLast {
			header |= 1 << 31
		}
		hBuf := make([]byte, 4)
		binary.BigEndian.PutUint32(hBuf, header)
		buf.Write(hBuf)
		buf.Write(b.data)
	}
	buf.Write(audioData)
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

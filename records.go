package youtube

import (
	"strconv"
	"strings"
)

//////////////////////////////////////////////////

type Thumbnail struct {
	URL    string `json:"url,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

type VideoChannel struct {
	Name string `json:"name,omitempty"`
	ID   string `json:"id,omitempty"`
	URL  string `json:"url,omitempty"`
}

type Duration struct {
	Text   string `json:"text,omitempty"`
	Pretty string `json:"pretty,omitempty"`
}

type Published struct {
	Pretty string `json:"pretty,omitempty"`
}

type Views struct {
	Text       string `json:"text,omitempty"`
	Pretty     string `json:"pretty,omitempty"`
	PrettyLong string `json:"prettyLong,omitempty"`
}

type Subscribers struct {
	Text   string `json:"text,omitempty"`
	Pretty string `json:"pretty,omitempty"`
}

//////////////////////////////////////////////////

type Video struct {
	Title      string       `json:"title,omitempty"`
	ID         string       `json:"id,omitempty"`
	URL        string       `json:"url,omitempty"`
	Channel    VideoChannel `json:"channel"`
	Duration   Duration     `json:"duration"`
	Published  Published    `json:"published"`
	Views      Views        `json:"views"`
	Thumbnails []Thumbnail  `json:"thumbnails,omitempty"`
}

func (v Video) String() string {
	var s strings.Builder

	s.WriteString("{Video:[id:")
	s.WriteString(strconv.Quote(v.ID))
	s.WriteString(", channelID:")
	s.WriteString(strconv.Quote(v.Channel.ID))
	s.WriteString("]}")

	return s.String()
}

type Channel struct {
	Name        string      `json:"name,omitempty"`
	ID          string      `json:"id,omitempty"`
	URL         string      `json:"url,omitempty"`
	Subscribers Subscribers `json:"subscribers"`
	Icons       []Thumbnail `json:"icons,omitempty"`
	Badges      []string    `json:"badges"`
}

func (c Channel) String() string {
	var s strings.Builder

	s.WriteString("{Channel:[id:")
	s.WriteString(strconv.Quote(c.ID))
	s.WriteString(", name:")
	s.WriteString(strconv.Quote(c.Name))
	s.WriteString("]}")

	return s.String()
}

type Playlist struct {
	Name       string      `json:"name,omitempty"`
	ID         string      `json:"id,omitempty"`
	URL        string      `json:"url,omitempty"`
	Thumbnails []Thumbnail `json:"thumbnails,omitempty"`
	VideoCount string      `json:"videoCount,omitempty"`
	Published  Published   `json:"published"`
}

func (p Playlist) String() string {
	var s strings.Builder

	s.WriteString("{Playlist:[id:")
	s.WriteString(strconv.Quote(p.ID))
	s.WriteString(", videoCount:")
	s.WriteString(strconv.Quote(p.VideoCount))
	s.WriteString("]}")

	return s.String()
}

package models

// VideoInfo is a single playlist entry as shown to clients.
type VideoInfo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Duration  string `json:"duration"`
	Thumbnail string `json:"thumbnail"`
}

type Playlist struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Author string      `json:"author"`
	Videos []VideoInfo `json:"videos"`
}

package models

import "time"

type AnimeType string

const (
	TypeTV      AnimeType = "TV"
	TypeMovie   AnimeType = "Movie"
	TypeOVA     AnimeType = "OVA"
	TypeSpecial AnimeType = "Special"
)

type AnimeStatus string

const (
	StatusOngoing   AnimeStatus = "Ongoing"
	StatusCompleted AnimeStatus = "Completed"
	StatusUpcoming  AnimeStatus = "Upcoming"
)

type UserRole string

const (
	RoleUser    UserRole = "User"
	RoleManager UserRole = "Manager"
	RoleAdmin   UserRole = "Admin"
)

type UserStatus string

const (
	UserActive  UserStatus = "Active"
	UserBlocked UserStatus = "Blocked"
)

// Order values accepted by the anime listing endpoint. Anything else
// leaves the current ordering untouched.
const (
	OrderLatest     = "Latest"
	OrderOldest     = "Oldest"
	OrderTitleAZ    = "Title (A-Z)"
	OrderTitleZA    = "Title (Z-A)"
	OrderRatingDesc = "Rating (High-Low)"
	OrderRatingAsc  = "Rating (Low-High)"
)

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Anime is a catalog entry. Genres is always derived from the
// anime_genres join table, never stored on the row itself.
type Anime struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Type        AnimeType   `json:"type"`
	Status      AnimeStatus `json:"status"`
	ReleaseYear int         `json:"releaseYear"`
	Rating      float64     `json:"rating"`
	Duration    string      `json:"duration"`
	CoverImage  string      `json:"coverImage"`
	BannerImage string      `json:"bannerImage"`
	Featured    bool        `json:"featured"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	Genres      []Genre     `json:"genres"`
}

type Season struct {
	ID      int    `json:"id"`
	AnimeID int    `json:"animeId"`
	Number  int    `json:"number"`
	Title   string `json:"title"`
}

type Episode struct {
	ID          int    `json:"id"`
	SeasonID    int    `json:"seasonId"`
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Thumbnail   string `json:"thumbnail"`
}

type VideoSource struct {
	ID             int    `json:"id"`
	EpisodeID      int    `json:"episodeId"`
	Quality        string `json:"quality"`
	URL            string `json:"url"`
	IsDownloadable bool   `json:"isDownloadable"`
}

type User struct {
	ID        int        `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Password  string     `json:"-"`
	Role      UserRole   `json:"role"`
	Status    UserStatus `json:"status"`
	Avatar    string     `json:"avatar,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type Session struct {
	ID         string    `json:"id"`
	UserID     int       `json:"userId"`
	Token      string    `json:"-"`
	IPAddress  string    `json:"ipAddress"`
	DeviceInfo string    `json:"deviceInfo"`
	CreatedAt  time.Time `json:"createdAt"`
	LastActive time.Time `json:"lastActive"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

type WatchProgress struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	EpisodeID int       `json:"episodeId"`
	Progress  int       `json:"progress"`
	Completed bool      `json:"completed"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Download struct {
	ID           int       `json:"id"`
	UserID       int       `json:"userId"`
	EpisodeID    int       `json:"episodeId"`
	Quality      string    `json:"quality"`
	DownloadedAt time.Time `json:"downloadedAt"`
	IPAddress    string    `json:"ipAddress,omitempty"`
	Completed    bool      `json:"completed"`
}

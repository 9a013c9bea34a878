package dto

type CreateBannerDTO struct {
	Title           string `json:"title"`
	Subtitle        string `json:"subtitle"`
	Link            string `json:"link"`
	MobileImageUrl  string `json:"mobileImageUrl"`
	DesktopImageUrl string `json:"desktopImageUrl"`
	IsActive        *bool  `json:"isActive"`
	SortOrder       *int   `json:"sortOrder"`
}

type UpdateBannerDTO struct {
	Title           *string `json:"title"`
	Subtitle        *string `json:"subtitle"`
	Link            *string `json:"link"`
	MobileImageUrl  *string `json:"mobileImageUrl"`
	DesktopImageUrl *string `json:"desktopImageUrl"`
	IsActive        *bool   `json:"isActive"`
	SortOrder       *int    `json:"sortOrder"`
}

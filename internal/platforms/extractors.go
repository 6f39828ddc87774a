package platforms

import (
	"encoding/json"

	"github.com/flowpost/flowpost/internal/transfer"
)

// Profile extractors. Each decodes one provider's profile payload into the
// canonical fields. Absent fields decode to empty strings, so a sparse
// response never fails here.

func extractFacebook(body []byte) (*Profile, error) {
	var p transfer.FacebookProfile
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, err
	}
	return &Profile{
		AccountID:   p.ID,
		Username:    p.Name,
		DisplayName: p.Name,
		AvatarURL:   p.Picture.Data.URL,
	}, nil
}

func extractInstagram(body []byte) (*Profile, error) {
	var p transfer.InstagramProfile
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, err
	}
	return &Profile{
		AccountID:   p.ID,
		Username:    p.Username,
		DisplayName: p.Name,
		AvatarURL:   p.ProfilePicture,
	}, nil
}

func extractLinkedin(body []byte) (*Profile, error) {
	var p transfer.LinkedinProfile
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, err
	}
	return &Profile{
		AccountID:   p.Sub,
		Username:    p.Email,
		DisplayName: p.Name,
		AvatarURL:   p.Picture,
	}, nil
}

func extractTwitter(body []byte) (*Profile, error) {
	var p transfer.TwitterProfile
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, err
	}
	return &Profile{
		AccountID:   p.Data.ID,
		Username:    p.Data.Username,
		DisplayName: p.Data.Name,
		AvatarURL:   p.Data.ProfileImageURL,
	}, nil
}

func extractGoogle(body []byte) (*Profile, error) {
	var p transfer.GoogleProfile
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, err
	}
	return &Profile{
		AccountID:   p.ID,
		Username:    p.Email,
		DisplayName: p.Name,
		AvatarURL:   p.Picture,
	}, nil
}

func extractPinterest(body []byte) (*Profile, error) {
	var p transfer.PinterestProfile
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, err
	}
	name := p.BusinessName
	if name == "" {
		name = p.Username
	}
	return &Profile{
		AccountID:   p.ID,
		Username:    p.Username,
		DisplayName: name,
		AvatarURL:   p.ProfileImage,
	}, nil
}

package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Weeks is a training duration. The backend emits it as a number or a numeric string.
type Weeks int

// UnmarshalJSON accepts 6, "6", and "6 weeks".
func (w *Weeks) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*w = 0
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		fields := strings.Fields(raw)
		if len(fields) == 0 {
			*w = 0
			return nil
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			*w = 0
			return nil
		}
		*w = Weeks(n)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*w = Weeks(n)
	return nil
}

// Company is a training provider.
type Company struct {
	ID             string `json:"_id,omitempty"`
	NationalID     string `json:"nationalId,omitempty"`
	Name           string `json:"name,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Location       string `json:"location,omitempty"`
	FieldOfWork    string `json:"fieldOfWork,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// UnmarshalJSON accepts either a populated company object or its bare id.
func (c *Company) UnmarshalJSON(data []byte) error {
	id, ok, err := bareID(data)
	if err != nil {
		return err
	}
	if ok {
		*c = Company{ID: id}
		return nil
	}
	type plain Company
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Company(p)
	return nil
}

// TrainingPost is an opening published by a company.
type TrainingPost struct {
	ID             string    `json:"_id"`
	Title          string    `json:"title"`
	Duration       Weeks     `json:"duration"`
	Location       string    `json:"location"`
	AvailableUntil string    `json:"availableUntil"`
	Description    string    `json:"description"`
	Company        *Company  `json:"company,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// UnmarshalJSON accepts either a populated post or its bare id.
func (p *TrainingPost) UnmarshalJSON(data []byte) error {
	id, ok, err := bareID(data)
	if err != nil {
		return err
	}
	if ok {
		*p = TrainingPost{ID: id}
		return nil
	}
	type plain TrainingPost
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = TrainingPost(v)
	return nil
}

// CompanyName returns the populated company name or an empty string.
func (p TrainingPost) CompanyName() string {
	if p.Company == nil {
		return ""
	}
	return p.Company.Name
}

// PostInput creates or replaces a training post.
type PostInput struct {
	Title          string `json:"title" validate:"required"`
	Duration       string `json:"duration" validate:"required,numeric"`
	Location       string `json:"location" validate:"required"`
	AvailableUntil string `json:"availableUntil" validate:"required,datetime=2006-01-02"`
	Description    string `json:"description" validate:"required"`
}

// CompanyProfileUpdate is the editable subset of a company profile.
type CompanyProfileUpdate struct {
	Name        string `json:"name" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	Location    string `json:"location" validate:"required"`
	FieldOfWork string `json:"fieldOfWork" validate:"required"`
	NewPassword string `json:"newPassword,omitempty" validate:"omitempty,min=6"`
}

// bareID reports whether a reference field holds a plain id string instead of
// a populated document.
func bareID(data []byte) (string, bool, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '"' {
		return "", false, nil
	}
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return "", false, err
	}
	return id, true, nil
}

// Package config parses the INI configuration file.
package config

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-ini/ini"

	synerrors "github.com/sage-bionetworks/synapse-go/errors"
	"github.com/sage-bionetworks/synapse-go/upload"
	"github.com/sage-bionetworks/synapse-go/uploadtypes"
)

const (
	authenticationSection = "authentication"
	authTokenKey          = "authtoken"
	cacheSection          = "cache"
	cacheLocationKey      = "location"
	profileKey            = "profile_name"
)

// DefaultProfile is the object store access profile used when the
// configuration file names none.
const DefaultProfile = "default"

// File is the parsed configuration file. Sections:
//
//	[authentication]              authtoken
//	[cache]                       location
//	[<scheme>://<host>]           username, password for SFTP endpoints
//	[<endpoint>/<bucket>]         profile_name for object store locations
type File struct {
	ini *ini.File
}

var _ upload.CredentialProvider = (*File)(nil)

// LoadFile parses the configuration file at path.
func LoadFile(path string) (*File, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	return &File{ini: f}, nil
}

// LooseLoadFile parses the configuration file at path, treating a missing
// file as empty.
func LooseLoadFile(path string) (*File, error) {
	f, err := ini.LooseLoad(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	return &File{ini: f}, nil
}

// ParseFile parses configuration from raw bytes.
func ParseFile(data []byte) (*File, error) {
	f, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	return &File{ini: f}, nil
}

// UserCredentials returns the username and password configured for the URL's
// endpoint. Credentials are keyed by scheme and host only, so every path on
// an endpoint shares one section.
func (f *File) UserCredentials(_ context.Context, rawURL string) (uploadtypes.Credentials, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return uploadtypes.Credentials{}, synerrors.NewDestinationError("getCredentials", rawURL, synerrors.ErrInvalidArgument).
			WithMessage("credentials are keyed by scheme://host")
	}
	sectionName := u.Scheme + "://" + u.Hostname()

	section, err := f.ini.GetSection(sectionName)
	if err != nil {
		return uploadtypes.Credentials{}, synerrors.NewDestinationError("getCredentials", sectionName, synerrors.ErrInvalidCredentials).
			WithMessage(fmt.Sprintf("no credentials configured for %s", sectionName))
	}

	creds := uploadtypes.Credentials{
		Username: section.Key("username").String(),
		Password: section.Key("password").String(),
	}
	if creds.Username == "" || creds.Password == "" {
		return uploadtypes.Credentials{}, synerrors.NewDestinationError("getCredentials", sectionName, synerrors.ErrInvalidCredentials).
			WithMessage(fmt.Sprintf("incomplete credentials for %s, need username and password", sectionName))
	}
	return creds, nil
}

// StorageProfile returns the access profile configured for an endpoint and
// bucket, DefaultProfile when the file names none.
func (f *File) StorageProfile(_ context.Context, endpoint, bucket string) (string, error) {
	section, err := f.ini.GetSection(endpoint + "/" + bucket)
	if err != nil {
		return DefaultProfile, nil
	}
	key, err := section.GetKey(profileKey)
	if err != nil {
		return DefaultProfile, nil
	}
	return key.String(), nil
}

// AuthToken returns the personal access token from the authentication
// section, or "" when none is configured.
func (f *File) AuthToken() string {
	section, err := f.ini.GetSection(authenticationSection)
	if err != nil {
		return ""
	}
	return section.Key(authTokenKey).String()
}

// CacheRoot returns the configured cache root directory, or "" when the file
// does not set one.
func (f *File) CacheRoot() string {
	section, err := f.ini.GetSection(cacheSection)
	if err != nil {
		return ""
	}
	return section.Key(cacheLocationKey).String()
}

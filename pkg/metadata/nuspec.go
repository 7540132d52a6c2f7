package metadata

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/ekaya-inc/dtdl2oas/pkg/apperrors"
)

// NuspecNamespacePrefix is shared by every published nuspec schema version,
// e.g. http://schemas.microsoft.com/packaging/2013/05/nuspec.xsd.
const NuspecNamespacePrefix = "http://schemas.microsoft.com/packaging/"

// RequiredNuspecFields must be present in a package manifest.
var RequiredNuspecFields = []string{KeyID, KeyVersion, KeyDescription, KeyAuthors}

type nuspecPackage struct {
	XMLName  xml.Name       `xml:"package"`
	Metadata nuspecMetadata `xml:"metadata"`
}

type nuspecMetadata struct {
	ID          string        `xml:"id"`
	Version     string        `xml:"version"`
	Title       string        `xml:"title"`
	Authors     string        `xml:"authors"`
	Description string        `xml:"description"`
	ProjectURL  string        `xml:"projectUrl"`
	LicenseURL  string        `xml:"licenseUrl"`
	License     nuspecLicense `xml:"license"`
}

type nuspecLicense struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

// ParseNuspec extracts annotations from a NuGet package manifest.
func ParseNuspec(r io.Reader) (Map, error) {
	var pkg nuspecPackage
	if err := xml.NewDecoder(r).Decode(&pkg); err != nil {
		return nil, fmt.Errorf("failed to parse nuspec: %w", err)
	}
	if !strings.HasPrefix(pkg.XMLName.Space, NuspecNamespacePrefix) {
		return nil, fmt.Errorf("%w: package namespace %q is not a nuspec namespace", apperrors.ErrUnsupportedMetadata, pkg.XMLName.Space)
	}

	md := pkg.Metadata
	m := Map{}
	set := func(key, value string) {
		if v := strings.TrimSpace(value); v != "" {
			m[key] = v
		}
	}
	set(KeyID, md.ID)
	set(KeyVersion, md.Version)
	set(KeyTitle, md.Title)
	set(KeyAuthors, md.Authors)
	set(KeyDescription, md.Description)
	set(KeyContactURL, md.ProjectURL)
	set(KeyLicenseURL, md.LicenseURL)
	if md.License.Type == "" || md.License.Type == "expression" {
		set(KeyLicenseName, md.License.Value)
	}

	if err := m.Require(RequiredNuspecFields...); err != nil {
		return nil, err
	}
	return m, nil
}

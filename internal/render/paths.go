package render

import (
	"path/filepath"
	"strings"

	"ftthdesk/internal/record"
)

const (
	siteDir            = "site"
	AdminDashboardName = "dashboard_admin.html"
	CalendarName       = "calendar.html"
)

// Layout resolves every artifact location from the output root. All names
// derive from the artifact key and the dossier output tag only.
type Layout struct {
	Root string
}

func CardName(key string) string { return "Fiche_" + key + ".png" }

func QRName(key string) string { return key + "_QR.png" }

func ClientPageName(key string) string { return "client_" + key + ".html" }

func PDFName(date string) string { return "Fiches_Installation_" + date + ".pdf" }

func TeamDashboardName(team string) string {
	return "dashboard_" + record.SafeTeamName(team) + ".html"
}

func (l Layout) Dir(tag string) string { return filepath.Join(l.Root, tag) }

func (l Layout) SiteDir(tag string) string { return filepath.Join(l.Root, tag, siteDir) }

func (l Layout) Card(tag, key string) string { return filepath.Join(l.Dir(tag), CardName(key)) }

func (l Layout) QR(tag, key string) string { return filepath.Join(l.Dir(tag), QRName(key)) }

func (l Layout) PDF(tag, date string) string { return filepath.Join(l.Dir(tag), PDFName(date)) }

func (l Layout) ClientPage(tag, key string) string {
	return filepath.Join(l.SiteDir(tag), ClientPageName(key))
}

func (l Layout) TeamDashboard(team string) string {
	return filepath.Join(l.Root, TeamDashboardName(team))
}

func (l Layout) AdminDashboard() string { return filepath.Join(l.Root, AdminDashboardName) }

func (l Layout) Calendar() string { return filepath.Join(l.Root, CalendarName) }

// ClientURL is the public address a QR code encodes.
func ClientURL(base, tag, key string) string {
	return strings.TrimRight(base, "/") + "/" + tag + "/" + siteDir + "/" + ClientPageName(key)
}

// clientHref links a client page from a root-level dashboard.
func clientHref(tag, key string) string {
	return tag + "/" + siteDir + "/" + ClientPageName(key)
}

// cardHref links a card image from a root-level dashboard.
func cardHref(tag, key string) string {
	return tag + "/" + CardName(key)
}

package brreg

// Record shapes for the Enhetsregisteret wire contract. Field names follow the
// registry's Norwegian JSON schema; this is the stable subset exposed by the
// lookup, search, role and code-list endpoints, not the full catalogue.

// Kode is the registry's generic {kode, beskrivelse} pair used by code lists.
type Kode struct {
	Kode        string `json:"kode" validate:"required"`
	Beskrivelse string `json:"beskrivelse"`
}

// Organisasjonsform describes the legal form of an entity.
type Organisasjonsform struct {
	Kode        string `json:"kode" validate:"required"`
	Beskrivelse string `json:"beskrivelse"`
	UtgaattDato string `json:"utgaatt,omitempty"`
}

// Naeringskode is an industrial classification code.
type Naeringskode struct {
	Kode        string `json:"kode"`
	Beskrivelse string `json:"beskrivelse"`
}

// Adresse is a postal, business or location address.
type Adresse struct {
	Land          string   `json:"land,omitempty"`
	Landkode      string   `json:"landkode,omitempty"`
	Postnummer    string   `json:"postnummer,omitempty"`
	Poststed      string   `json:"poststed,omitempty"`
	Kommune       string   `json:"kommune,omitempty"`
	Kommunenummer string   `json:"kommunenummer,omitempty"`
	Adresse       []string `json:"adresse,omitempty"`
}

// Enhet is a primary registered organization record.
type Enhet struct {
	Organisasjonsnummer               string             `json:"organisasjonsnummer" validate:"required,len=9,numeric"`
	Navn                              string             `json:"navn" validate:"required"`
	Organisasjonsform                 *Organisasjonsform `json:"organisasjonsform,omitempty"`
	Hjemmeside                        string             `json:"hjemmeside,omitempty"`
	RegistreringsdatoEnhetsregisteret string             `json:"registreringsdatoEnhetsregisteret,omitempty"`
	RegistrertIMvaregisteret          bool               `json:"registrertIMvaregisteret,omitempty"`
	RegistrertIForetaksregisteret     bool               `json:"registrertIForetaksregisteret,omitempty"`
	RegistrertIFrivillighetsregisteret bool              `json:"registrertIFrivillighetsregisteret,omitempty"`
	Naeringskode1                     *Naeringskode      `json:"naeringskode1,omitempty"`
	AntallAnsatte                     int                `json:"antallAnsatte,omitempty"`
	Forretningsadresse                *Adresse           `json:"forretningsadresse,omitempty"`
	Postadresse                       *Adresse           `json:"postadresse,omitempty"`
	Stiftelsesdato                    string             `json:"stiftelsesdato,omitempty"`
	Maalform                          string             `json:"maalform,omitempty"`
	Konkurs                           bool               `json:"konkurs,omitempty"`
	UnderAvvikling                    bool               `json:"underAvvikling,omitempty"`
	UnderTvangsavviklingEllerTvangsopplosning bool       `json:"underTvangsavviklingEllerTvangsopplosning,omitempty"`
}

// SlettetEnhet is the deletion record returned for an entity that has been
// removed from the register.
type SlettetEnhet struct {
	Organisasjonsnummer string             `json:"organisasjonsnummer" validate:"required,len=9,numeric"`
	Navn                string             `json:"navn,omitempty"`
	Organisasjonsform   *Organisasjonsform `json:"organisasjonsform,omitempty"`
	Slettedato          string             `json:"slettedato" validate:"required"`
	ResponsKlasse       string             `json:"respons_klasse,omitempty"`
}

// Underenhet is a registered business unit subordinate to an Enhet.
type Underenhet struct {
	Organisasjonsnummer               string             `json:"organisasjonsnummer" validate:"required,len=9,numeric"`
	Navn                              string             `json:"navn" validate:"required"`
	Organisasjonsform                 *Organisasjonsform `json:"organisasjonsform,omitempty"`
	OverordnetEnhet                   string             `json:"overordnetEnhet,omitempty"`
	RegistreringsdatoEnhetsregisteret string             `json:"registreringsdatoEnhetsregisteret,omitempty"`
	Naeringskode1                     *Naeringskode      `json:"naeringskode1,omitempty"`
	AntallAnsatte                     int                `json:"antallAnsatte,omitempty"`
	Beliggenhetsadresse               *Adresse           `json:"beliggenhetsadresse,omitempty"`
	Postadresse                       *Adresse           `json:"postadresse,omitempty"`
	Oppstartsdato                     string             `json:"oppstartsdato,omitempty"`
	Nedleggelsesdato                  string             `json:"nedleggelsesdato,omitempty"`
}

// SlettetUnderenhet is the deletion record for a removed sub-entity.
type SlettetUnderenhet struct {
	Organisasjonsnummer string             `json:"organisasjonsnummer" validate:"required,len=9,numeric"`
	Navn                string             `json:"navn,omitempty"`
	Organisasjonsform   *Organisasjonsform `json:"organisasjonsform,omitempty"`
	Slettedato          string             `json:"slettedato" validate:"required"`
	ResponsKlasse       string             `json:"respons_klasse,omitempty"`
}

// EnhetResult is the tagged outcome of an entity lookup: exactly one of the
// two fields is set.
type EnhetResult struct {
	Enhet   *Enhet
	Slettet *SlettetEnhet
}

// Deleted reports whether the lookup resolved to a deletion record.
func (r *EnhetResult) Deleted() bool {
	return r != nil && r.Slettet != nil
}

// UnderenhetResult is the tagged outcome of a sub-entity lookup.
type UnderenhetResult struct {
	Underenhet *Underenhet
	Slettet    *SlettetUnderenhet
}

// Deleted reports whether the lookup resolved to a deletion record.
func (r *UnderenhetResult) Deleted() bool {
	return r != nil && r.Slettet != nil
}

// Page carries the registry's pagination envelope.
type Page struct {
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
}

// EnheterPage is one page of entity search results.
type EnheterPage struct {
	Embedded *EnheterEmbedded `json:"_embedded,omitempty"`
	Page     Page             `json:"page"`
}

// EnheterEmbedded holds the embedded entity list of a search page.
type EnheterEmbedded struct {
	Enheter []Enhet `json:"enheter" validate:"dive"`
}

// Enheter returns the entities on the page, nil for an empty page.
func (p *EnheterPage) Enheter() []Enhet {
	if p == nil || p.Embedded == nil {
		return nil
	}
	return p.Embedded.Enheter
}

// UnderenheterPage is one page of sub-entity search results.
type UnderenheterPage struct {
	Embedded *UnderenheterEmbedded `json:"_embedded,omitempty"`
	Page     Page                  `json:"page"`
}

// UnderenheterEmbedded holds the embedded sub-entity list of a search page.
type UnderenheterEmbedded struct {
	Underenheter []Underenhet `json:"underenheter" validate:"dive"`
}

// Underenheter returns the sub-entities on the page, nil for an empty page.
func (p *UnderenheterPage) Underenheter() []Underenhet {
	if p == nil || p.Embedded == nil {
		return nil
	}
	return p.Embedded.Underenheter
}

// PersonNavn is the name of a natural person in a role.
type PersonNavn struct {
	Fornavn    string `json:"fornavn,omitempty"`
	Mellomnavn string `json:"mellomnavn,omitempty"`
	Etternavn  string `json:"etternavn,omitempty"`
}

// RollePerson is a natural person holding a role.
type RollePerson struct {
	Navn   *PersonNavn `json:"navn,omitempty"`
	ErDoed bool        `json:"erDoed,omitempty"`
}

// RolleEnhet is an organization holding a role.
type RolleEnhet struct {
	Organisasjonsnummer string   `json:"organisasjonsnummer,omitempty"`
	Navn                []string `json:"navn,omitempty"`
	ErSlettet           bool     `json:"erSlettet,omitempty"`
}

// Rolle is a single role held by a person or an organization.
type Rolle struct {
	Type      *Kode        `json:"type,omitempty"`
	Person    *RollePerson `json:"person,omitempty"`
	Enhet     *RolleEnhet  `json:"enhet,omitempty"`
	Fratraadt bool         `json:"fratraadt,omitempty"`
}

// Rollegruppe groups the roles of one kind for an entity.
type Rollegruppe struct {
	Type   *Kode   `json:"type,omitempty"`
	Roller []Rolle `json:"roller,omitempty" validate:"dive"`
}

// Roller is the full role listing of an entity.
type Roller struct {
	Rollegrupper []Rollegruppe `json:"rollegrupper" validate:"dive"`
}

// Rolletyper is the code list of role types.
type Rolletyper struct {
	Embedded *RolletyperEmbedded `json:"_embedded,omitempty"`
}

// RolletyperEmbedded holds the embedded role type list.
type RolletyperEmbedded struct {
	Rolletyper []Kode `json:"rolletyper" validate:"dive"`
}

// Rollegruppetyper is the code list of role group types.
type Rollegruppetyper struct {
	Embedded *RollegruppetyperEmbedded `json:"_embedded,omitempty"`
}

// RollegruppetyperEmbedded holds the embedded role group type list.
type RollegruppetyperEmbedded struct {
	Rollegruppetyper []Kode `json:"rollegruppetyper" validate:"dive"`
}

// Kommune is a municipality code entry.
type Kommune struct {
	Nummer string `json:"nummer" validate:"required"`
	Navn   string `json:"navn"`
}

// Kommuner is the municipality code list.
type Kommuner struct {
	Embedded *KommunerEmbedded `json:"_embedded,omitempty"`
}

// KommunerEmbedded holds the embedded municipality list.
type KommunerEmbedded struct {
	Kommuner []Kommune `json:"kommuner" validate:"dive"`
}

// Organisasjonsformer is the organization form code list.
type Organisasjonsformer struct {
	Embedded *OrganisasjonsformerEmbedded `json:"_embedded,omitempty"`
}

// OrganisasjonsformerEmbedded holds the embedded organization form list.
type OrganisasjonsformerEmbedded struct {
	Organisasjonsformer []Organisasjonsform `json:"organisasjonsformer" validate:"dive"`
}

// RolleRepresentanter is the code list of role representative types.
type RolleRepresentanter struct {
	Embedded *RolleRepresentanterEmbedded `json:"_embedded,omitempty"`
}

// RolleRepresentanterEmbedded holds the embedded representative type list.
type RolleRepresentanterEmbedded struct {
	Representanter []Kode `json:"representanter" validate:"dive"`
}

// Matrikkelenhet is a cadastral unit reference registered on an entity.
type Matrikkelenhet struct {
	Matrikkelnummer     string `json:"matrikkelnummer,omitempty"`
	Organisasjonsnummer string `json:"organisasjonsnummer,omitempty"`
	Kommunenummer       string `json:"kommunenummer,omitempty"`
	Gaardsnummer        int    `json:"gaardsnummer,omitempty"`
	Bruksnummer         int    `json:"bruksnummer,omitempty"`
	Festenummer         int    `json:"festenummer,omitempty"`
	Seksjonsnummer      int    `json:"seksjonsnummer,omitempty"`
	Bruksnavn           string `json:"bruksnavn,omitempty"`
}

// Oppdatering is one entry in an update feed.
type Oppdatering struct {
	Oppdateringsid      int64  `json:"oppdateringsid"`
	Dato                string `json:"dato,omitempty"`
	Organisasjonsnummer string `json:"organisasjonsnummer,omitempty"`
	Endringstype        string `json:"endringstype,omitempty"`
}

// RolleOppdatering is one entry in the role update feed. The registry serves
// this feed as a bare list, not a paged envelope.
type RolleOppdatering struct {
	ID                     int64  `json:"id"`
	Ajourfoeringstidspunkt string `json:"ajourfoeringstidspunkt,omitempty"`
	Organisasjonsnummer    string `json:"organisasjonsnummer,omitempty"`
}

// EnhetOppdateringerPage is one page of the entity update feed.
type EnhetOppdateringerPage struct {
	Embedded *EnhetOppdateringerEmbedded `json:"_embedded,omitempty"`
	Page     Page                        `json:"page"`
}

// EnhetOppdateringerEmbedded holds the embedded entity updates.
type EnhetOppdateringerEmbedded struct {
	OppdaterteEnheter []Oppdatering `json:"oppdaterteEnheter"`
}

// UnderenhetOppdateringerPage is one page of the sub-entity update feed.
type UnderenhetOppdateringerPage struct {
	Embedded *UnderenhetOppdateringerEmbedded `json:"_embedded,omitempty"`
	Page     Page                             `json:"page"`
}

// UnderenhetOppdateringerEmbedded holds the embedded sub-entity updates.
type UnderenhetOppdateringerEmbedded struct {
	OppdaterteUnderenheter []Oppdatering `json:"oppdaterteUnderenheter"`
}

package models

import (
	"time"
)

// ResearchDesign is one research entry from the game content API. Fields decode
// straight from the XML attributes of a ResearchDesign element.
type ResearchDesign struct {
	ID                       string `xml:"ResearchDesignId,attr"`
	Name                     string `xml:"ResearchName,attr"`
	Description              string `xml:"ResearchDescription,attr"`
	StarbuxCost              int64  `xml:"StarbuxCost,attr"`
	GasCost                  int64  `xml:"GasCost,attr"`
	ResearchTimeSeconds      int64  `xml:"ResearchTime,attr"`
	RequiredLabLevel         int    `xml:"RequiredLabLevel,attr"`
	RequiredResearchDesignID string `xml:"RequiredResearchDesignId,attr"`
}

// HasParent reports whether the research requires another research first.
// The API encodes "no parent" as id "0".
func (d *ResearchDesign) HasParent() bool {
	return d.RequiredResearchDesignID != "" && d.RequiredResearchDesignID != "0"
}

// Duration returns the research time as a duration
func (d *ResearchDesign) Duration() time.Duration {
	return time.Duration(d.ResearchTimeSeconds) * time.Second
}

// ResearchDetails is the display-ready projection of a research design
type ResearchDetails struct {
	Name                 string
	Description          string
	CostDisplay          string
	DurationDisplay      string
	RequiredLabLevel     int
	RequiredResearchName string
}

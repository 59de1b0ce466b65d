package scraper

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/casefetch/court-api/internal/models"
)

// FillForm fills the three search fields. Each field walks its own ranked
// candidate list and commits to the first strategy that matches and writes;
// if every strategy for a field fails, the whole fill fails with that field
// named.
func (s *chromeSession) FillForm(_ context.Context, query models.SearchQuery) error {
	if err := s.fillSelect("case_type", caseTypeCandidates, query.CaseType); err != nil {
		return err
	}
	if err := s.fillText("case_number", caseNumberCandidates, query.CaseNumber); err != nil {
		return err
	}
	if err := s.fillSelect("filing_year", filingYearCandidates, strconv.Itoa(query.FilingYear)); err != nil {
		return err
	}
	s.logger.Debug("Search form filled")
	return nil
}

func (s *chromeSession) fillSelect(field string, candidates []candidate, value string) error {
	for _, c := range candidates {
		ok, err := s.evalBool(selectOptionJS(c, value))
		if err != nil {
			s.logger.WithField("strategy", c.desc).WithError(err).Debug("Select strategy errored")
			continue
		}
		if ok {
			s.logger.WithFields(logrus.Fields{
				"field":    field,
				"strategy": c.desc,
			}).Debug("Field filled")
			return nil
		}
	}
	return models.NewFailure(models.ErrFormFieldNotFound, "field %s: no selector strategy matched", field)
}

func (s *chromeSession) fillText(field string, candidates []candidate, value string) error {
	for _, c := range candidates {
		ok, err := s.evalBool(fillInputJS(c, value))
		if err != nil {
			s.logger.WithField("strategy", c.desc).WithError(err).Debug("Input strategy errored")
			continue
		}
		if ok {
			s.logger.WithFields(logrus.Fields{
				"field":    field,
				"strategy": c.desc,
			}).Debug("Field filled")
			return nil
		}
	}
	return models.NewFailure(models.ErrFormFieldNotFound, "field %s: no selector strategy matched", field)
}

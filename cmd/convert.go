package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/SPI-Birds/metadata/internal/ioassign"
	"github.com/SPI-Birds/metadata/internal/ioauthority"
	"github.com/SPI-Birds/metadata/internal/iocite"
	"github.com/SPI-Birds/metadata/internal/iomaps"
	"github.com/SPI-Birds/metadata/internal/ioprompt"
	"github.com/SPI-Birds/metadata/internal/ioreftab"
	"github.com/SPI-Birds/metadata/internal/ioresolve"
	"github.com/SPI-Birds/metadata/internal/iosheet"
	"github.com/SPI-Birds/metadata/internal/iotransform"
	"github.com/SPI-Birds/metadata/pkg/config"
	"github.com/SPI-Birds/metadata/pkg/eml"
	"github.com/SPI-Birds/metadata/pkg/pipeline"
	"github.com/SPI-Birds/metadata/pkg/record"
	"github.com/SPI-Birds/metadata/pkg/reftab"
	"github.com/SPI-Birds/metadata/pkg/taxon"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnuuid"
	"github.com/kr/pretty"
	"github.com/spf13/cobra"
)

// getConvertCmd returns the convert command.
func getConvertCmd() *cobra.Command {
	convertCmd := &cobra.Command{
		Use:   "convert <identity>",
		Short: "Convert one submission into an EML document",
		Long: `Convert the submission of the given submitter into an EML document.

The identity is the submitter's name or e-mail address exactly as given
in the form. The command fetches the submission sheet, reconciles the
species list across the taxonomic authorities, assigns site, study,
custodian and species identifiers, and writes a validated EML document
together with the conversion result into a conversion directory.

The conversion suspends and asks whenever an ambiguity needs a human
decision: a synonymous name, a missing vernacular, an identifier
collision. Answers are read from the terminal.

The reference tables are not modified; run 'spimeta merge' on the
produced conversion directory to apply the result.

Examples:
  # Convert the submission of one submitter
  spimeta convert "m.visser@nioo.knaw.nl"

  # Show the full conversion result afterwards
  spimeta convert --verbose "Marcel E. Visser"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			return runConvert(args[0], verbose)
		},
	}

	convertCmd.Flags().BoolP(
		"verbose", "v", false, "print the full conversion result",
	)

	return convertCmd
}

func runConvert(identity string, verbose bool) error {
	ctx := context.Background()
	start := time.Now()
	dis := ioprompt.New()

	sheet, err := iosheet.New(cfg, dis)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	rec, err := sheet.ForIdentity(ctx, identity)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	gn.Info(
		"Converting the submission of <em>%s</em> for site <em>%s</em>",
		rec.CreatorName, rec.SiteName,
	)

	var cache *ioauthority.Cache
	if cfg.Authority.WithCache != nil && *cfg.Authority.WithCache {
		cachePath := filepath.Join(
			config.CacheDir(cfg.HomeDir), "authorities.db",
		)
		cache, err = ioauthority.OpenCache(cachePath)
		if err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		defer cache.Close()
	}

	resolver, err := ioresolve.New(cfg, cache, dis)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	gn.Info("Resolving %d species names...", len(rec.SpeciesNames))
	taxa, err := resolver.ResolveAll(ctx, rec.SpeciesNames)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	repo := ioreftab.New(
		config.DataDir(cfg.HomeDir), config.ArchiveDir(cfg.HomeDir),
	)
	tables, err := repo.Load()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	ids, err := assignIdentifiers(ctx, dis, rec, taxa, tables)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	transformer, err := iotransform.New(iocite.New(cfg.Authority.DOIHost))
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	doc, err := transformer.Transform(ctx, rec, taxa, ids)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	data, err := eml.Serialize(doc)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if err = eml.Validate(data); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	res := &pipeline.Result{
		Submission:   rec,
		Taxa:         taxa,
		IDs:          ids,
		DocumentFile: fmt.Sprintf("%s_%s.xml", ids.StudyUUID, doc.Dataset.PubDate),
	}
	dir, err := writeConversion(cfg, res, data)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	saveSiteMap(ctx, cfg, dir, rec, ids)

	if verbose {
		pretty.Println(res)
	}

	gn.Info(`Conversion of study <em>%s</em> is complete in %s.

The document (%s) and the conversion result are in
<em>%s</em>.
Run 'spimeta merge %s' to apply the result to the reference tables.`,
		ids.StudyID,
		gnfmt.TimeString(time.Since(start).Seconds()),
		humanize.Bytes(uint64(len(data))),
		dir, dir,
	)

	return nil
}

// assignIdentifiers derives the stable identifiers of the conversion,
// suspending for operator decisions on collisions and updates.
func assignIdentifiers(
	ctx context.Context,
	dis pipeline.Disambiguator,
	rec *record.Submission,
	taxa []*taxon.Classification,
	tables *reftab.Tables,
) (*pipeline.Identifiers, error) {
	assigner := ioassign.New(dis)

	siteID, studyID, newSite, newStudy, err := assigner.AssignSiteAndStudy(
		ctx, rec.SiteName, tables,
	)
	if err != nil {
		return nil, err
	}

	custodianID, err := assigner.AssignCustodianID(
		ctx, rec.CustodianName, tables,
	)
	if err != nil {
		return nil, err
	}

	// The UUID is stable across updates: an existing study keeps its
	// recorded one, a new study derives one from its identifier.
	studyUUID := gnuuid.New(siteID + "|" + studyID).String()
	if study, ok := tables.StudyByID(studyID); ok && study.StudyUUID != "" {
		studyUUID = study.StudyUUID
	}

	// Only species new to the reference table need fresh mnemonics.
	used := tables.SpeciesIDs()
	speciesIDs := make(map[string]string)
	for _, c := range taxa {
		if tables.HasScientificName(c.Accepted) {
			continue
		}
		id, err := assigner.AssignSpeciesID(ctx, c.Accepted, used)
		if err != nil {
			return nil, err
		}
		speciesIDs[c.Accepted] = id
		used[id] = struct{}{}
	}

	return &pipeline.Identifiers{
		SiteID:      siteID,
		StudyID:     studyID,
		StudyUUID:   studyUUID,
		CustodianID: custodianID,
		NewSite:     newSite,
		NewStudy:    newStudy,
		SpeciesIDs:  speciesIDs,
	}, nil
}

// writeConversion creates the conversion directory and writes the
// document and the result file into it.
func writeConversion(
	cfg *config.Config, res *pipeline.Result, doc []byte,
) (string, error) {
	dir := filepath.Join(
		config.DataDir(cfg.HomeDir), "conversions", res.IDs.StudyID,
	)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	docPath := filepath.Join(dir, res.DocumentFile)
	if err := os.WriteFile(docPath, doc, 0644); err != nil {
		return "", err
	}

	enc := gnfmt.GNjson{Pretty: true}
	data, err := enc.Encode(res)
	if err != nil {
		return "", err
	}
	resPath := filepath.Join(dir, "result.json")
	if err := os.WriteFile(resPath, data, 0644); err != nil {
		return "", err
	}
	return dir, nil
}

// saveSiteMap writes a static map image of the site into the conversion
// directory. Failures are logged and never abort the conversion.
func saveSiteMap(
	ctx context.Context,
	cfg *config.Config,
	dir string,
	rec *record.Submission,
	ids *pipeline.Identifiers,
) {
	var lat, lon float64
	switch {
	case rec.Latitude != nil && rec.Longitude != nil:
		lat, lon = *rec.Latitude, *rec.Longitude
	case rec.North != nil && rec.South != nil &&
		rec.East != nil && rec.West != nil:
		lat = (*rec.North + *rec.South) / 2
		lon = (*rec.East + *rec.West) / 2
	default:
		return
	}

	f := iomaps.New(cfg.Authority.MapHost)
	if err := f.Save(ctx, dir, ids.SiteID, lat, lon); err != nil {
		slog.Warn("Cannot save site map image",
			"site", ids.SiteID, "error", err)
	}
}

package api

import (
	"encoding/json"
	"io"
	"maps"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/siliconmark/logocell/pkg/buildinfo"
	"github.com/siliconmark/logocell/pkg/errors"
	"github.com/siliconmark/logocell/pkg/geom"
	"github.com/siliconmark/logocell/pkg/pipeline"
	"github.com/siliconmark/logocell/pkg/store"
	"github.com/siliconmark/logocell/pkg/tech"
)

var contentTypes = map[string]string{
	pipeline.FormatGDS:  "application/octet-stream",
	pipeline.FormatLEF:  "text/plain; charset=utf-8",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatPNG:  "image/png",
}

type healthBody struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthBody{Status: "ok", Info: buildinfo.Get()})
}

func (s *Server) createConversion(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	opts, imageName, err := conversionOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	rec := store.NewRecord()
	rec.Image = imageName
	rec.ImageHash = result.ImageHash
	rec.RulesHash = result.RulesHash
	rec.Cell = result.Layout.Cell
	rec.Macro = opts.Macro
	if rec.Macro == "" {
		rec.Macro = pipeline.DefaultMacro
	}
	rec.Stack = result.Stack
	rec.PixelSize = opts.PixelSize
	if rec.PixelSize == 0 {
		rec.PixelSize = pipeline.DefaultPixelSize
	}
	rec.Threshold = result.Stats.Threshold
	rec.Width = geom.ToMicrons(result.Layout.Bounds.Width())
	rec.Height = geom.ToMicrons(result.Layout.Bounds.Height())
	rec.Shapes = result.Layout.ShapeCount()
	rec.Vias = result.Layout.ViaCount()
	rec.Passes = result.Stats.Passes
	rec.Filled = result.Stats.Filled
	rec.Formats = slices.Sorted(maps.Keys(result.Artifacts))
	rec.Artifacts = result.Artifacts

	if err := s.store.Put(r.Context(), rec); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "store conversion"))
		return
	}
	w.Header().Set("Location", "/v1/conversions/"+rec.ID)
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) listConversions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}
	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "list conversions"))
		return
	}
	if recs == nil {
		recs = []*store.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) getConversion(w http.ResponseWriter, r *http.Request) {
	rec, err := s.record(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) deleteConversion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !store.ValidID(id) {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "conversion %q not found", id))
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "delete conversion"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getArtifact(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}
	rec, err := s.record(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, ok := rec.Artifacts[format]
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "conversion %s has no %s artifact", rec.ID, format))
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Disposition", `attachment; filename="`+pipeline.FileName(format)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) record(r *http.Request) (*store.Record, error) {
	id := chi.URLParam(r, "id")
	if !store.ValidID(id) {
		return nil, errors.New(errors.ErrCodeNotFound, "conversion %q not found", id)
	}
	return s.store.Get(r.Context(), id)
}

// conversionOptions reads the uploaded files and option fields.
func conversionOptions(r *http.Request) (pipeline.Options, string, error) {
	var opts pipeline.Options

	img, imageName, err := formFile(r, "image")
	if err != nil {
		return opts, "", err
	}
	rules, rulesName, err := formFile(r, "constraints")
	if err != nil {
		return opts, "", err
	}
	opts.Image = img
	opts.Rules = rules
	opts.RulesFormat = tech.FormatFromPath(rulesName)
	if v := r.FormValue("constraints_format"); v != "" {
		opts.RulesFormat = tech.Format(strings.ToLower(v))
	}

	if v := r.FormValue("pixel_size"); v != "" {
		if opts.PixelSize, err = strconv.ParseFloat(v, 64); err != nil {
			return opts, "", errors.New(errors.ErrCodeInvalidInput, "invalid pixel_size %q", v)
		}
		if opts.PixelSize <= 0 {
			return opts, "", errors.New(errors.ErrCodeInvalidInput, "pixel_size must be positive, got %q", v)
		}
	}
	if v := r.FormValue("threshold"); v != "" {
		t, err := pipeline.ParseThreshold(v)
		if err != nil {
			return opts, "", err
		}
		opts.Threshold = pipeline.Threshold(t)
	}
	if v := r.FormValue("max_passes"); v != "" {
		if opts.MaxPasses, err = strconv.Atoi(v); err != nil {
			return opts, "", errors.New(errors.ErrCodeInvalidInput, "invalid max_passes %q", v)
		}
	}
	if v := r.FormValue("max_shape_size"); v != "" {
		if opts.MaxShapeSize, err = strconv.ParseFloat(v, 64); err != nil {
			return opts, "", errors.New(errors.ErrCodeInvalidInput, "invalid max_shape_size %q", v)
		}
	}
	if v := r.FormValue("stack"); v != "" {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				opts.Stack = append(opts.Stack, name)
			}
		}
	}
	if v := r.FormValue("refresh"); v != "" {
		if opts.Refresh, err = strconv.ParseBool(v); err != nil {
			return opts, "", errors.New(errors.ErrCodeInvalidInput, "invalid refresh %q", v)
		}
	}
	opts.Vias = pipeline.ViaMode(r.FormValue("vias"))
	opts.Cell = r.FormValue("cell")
	opts.Macro = r.FormValue("macro")
	opts.Formats = pipeline.ParseFormats(r.FormValue("formats"))
	return opts, imageName, nil
}

func formFile(r *http.Request, field string) ([]byte, string, error) {
	f, hdr, err := r.FormFile(field)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "missing %s file", field)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", field)
	}
	if len(data) == 0 {
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "%s file is empty", field)
	}
	return data, hdr.Filename, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

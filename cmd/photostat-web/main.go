package main

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"strings"

	"github.com/aymerick/raymond"
	"github.com/goji/httpauth"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/marpio/photostat"
	"github.com/marpio/photostat/exifvalue"
	"github.com/marpio/photostat/insights"
	"github.com/marpio/photostat/metadata"
	"github.com/marpio/photostat/report"
	"github.com/marpio/photostat/repository/sqlite"
	"github.com/marpio/photostat/storage"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/afero"
)

func getenv(n string) string {
	v := os.Getenv(n)
	if v == "" {
		panic("could not find env var " + n)
	}
	return v
}

func getenvDefault(n, fallback string) string {
	if v := os.Getenv(n); v != "" {
		return v
	}
	return fallback
}

func main() {
	godotenv.Load("settings.env")

	dbPath := getenv("PHOTOSTAT_DB")
	username := getenv("PHOTOSTAT_USERNAME")
	password := getenv("PHOTOSTAT_PASSWORD")
	addr := getenvDefault("PHOTOSTAT_ADDR", ":5000")
	ctx := context.Background()

	appFs := afero.NewOsFs()
	strg := storage.NewLocal(appFs)
	repo := sqlite.New(dbPath)
	defer repo.Close()

	router := configureRouter(ctx, repo, strg, dbPath)
	http.Handle("/", httpauth.SimpleBasicAuth(username, password)(router))

	http.ListenAndServe(addr, nil)
}

func configureRouter(ctx context.Context, repo photostat.RepoReader, strg photostat.StorageReadSeeker, dbPath string) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", mainPageHandler(repo))
	r.HandleFunc("/dirs/{dir}", dirHandler(repo))
	r.HandleFunc("/photos/{id}", photoHandler(ctx, repo, strg))
	r.HandleFunc("/photos/{id}/thumb", thumbHandler(ctx, repo, strg))
	r.HandleFunc("/report", reportPageHandler(repo, dbPath))
	r.HandleFunc("/report.json", reportJSONHandler(repo, dbPath))
	r.HandleFunc("/reloaddb", func(w http.ResponseWriter, r *http.Request) {
		err := repo.Reload(ctx)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		fmt.Fprint(w, "ok")
	})
	r.PathPrefix("/public/").Handler(http.StripPrefix("/public/", http.FileServer(http.Dir("public/"))))
	return r
}

func mainPageHandler(repo photostat.RepoReader) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		dirs, err := repo.GetDirs()
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}

		ctx := map[string][]string{
			"folders": dirs,
		}
		tmpl, err := raymond.ParseFile("templates/index.hbs")
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		result, err := tmpl.Exec(ctx)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		fmt.Fprint(w, result)
	}
}

func dirHandler(repo photostat.RepoReader) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		dir := vars["dir"]

		items, err := repo.GetByDir(dir)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		photos := make([]interface{}, 0)
		for _, it := range items {
			p := map[string]string{
				"id":       it.ID,
				"filename": it.Filename,
				"caption":  caption(it),
			}
			photos = append(photos, p)
		}

		ctx := map[string]interface{}{
			"dir":  dir,
			"imgs": photos,
		}
		tmpl, err := raymond.ParseFile("templates/dir.hbs")
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		result, err := tmpl.Exec(ctx)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		fmt.Fprint(w, result)
	}
}

// caption joins the settings a photographer scans a contact sheet for.
func caption(r photostat.Record) string {
	var parts []string
	if r.Aperture != nil {
		parts = append(parts, exifvalue.FormatAperture(*r.Aperture))
	}
	if r.ShutterSpeed != nil {
		parts = append(parts, exifvalue.FormatShutter(*r.ShutterSpeed))
	}
	if r.ISO != nil {
		parts = append(parts, exifvalue.FormatISO(*r.ISO))
	}
	if len(parts) == 0 {
		return r.Filename
	}
	return strings.Join(parts, " | ")
}

func photoHandler(ctx context.Context, repo photostat.RepoReader, strg photostat.StorageReadSeeker) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		id := vars["id"]
		rec, err := repo.GetByID(id)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if rec == nil {
			http.NotFound(w, r)
			return
		}
		rd, err := strg.NewReadSeeker(ctx, rec.Path)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		defer rd.Close()
		b, err := ioutil.ReadAll(rd)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		http.ServeContent(w, r, rec.Filename, rec.ModTime, bytes.NewReader(b))
	}
}

func thumbHandler(ctx context.Context, repo photostat.RepoReader, strg photostat.StorageReadSeeker) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		id := vars["id"]
		rec, err := repo.GetByID(id)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if rec == nil {
			http.NotFound(w, r)
			return
		}
		b, err := metadata.Thumbnail(ctx, strg, rec.Path)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(b)
	}
}

func reportPageHandler(repo photostat.RepoReader, dbPath string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := buildExport(repo, dbPath)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if err := report.WriteHTML(w, e); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
	}
}

func reportJSONHandler(repo photostat.RepoReader, dbPath string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := buildExport(repo, dbPath)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := report.WriteJSON(w, e); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
	}
}

func buildExport(repo photostat.RepoReader, dbPath string) (*report.Export, error) {
	recs, err := repo.GetAll()
	if err != nil {
		return nil, err
	}
	coll := photostat.Collection(recs)
	return report.NewExport(dbPath, coll, insights.Compute(coll)), nil
}

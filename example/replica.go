// Package example is a stand-in for the users backend that loadprobe is
// pointed at. Every response names the replica that served it.
package example

import (
	"encoding/json"
	"html/template"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
)

const PodHeader = "X-Pod-Name"

type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type replica struct {
	pod   string
	mu    sync.RWMutex
	users []User
}

var indexTemplate = template.Must(template.New("index").Parse(`<html>
<head><title>Users Management Application</title></head>
<body>
<h1>Users Management Application</h1>
<h3>POD: {{.Pod}}</h3>
<ul>
{{range .Users}}<li>{{.Name}} - {{.Email}}</li>
{{end}}</ul>
</body>
</html>
`))

func NewReplica(pod string) http.Handler {
	r := &replica{
		pod:   pod,
		users: []User{},
	}
	router := mux.NewRouter()
	router.Use(r.tag)
	router.HandleFunc("/", r.index).Methods(http.MethodGet)
	router.HandleFunc("/users", r.list).Methods(http.MethodGet)
	router.HandleFunc("/add", r.add).Methods(http.MethodPost)
	return router
}

func (r *replica) tag(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set(PodHeader, r.pod)
		next.ServeHTTP(w, req)
	})
}

func (r *replica) snapshot() []User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]User, len(r.users))
	copy(users, r.users)
	return users
}

func (r *replica) index(w http.ResponseWriter, req *http.Request) {
	// the page carries the pod name, the header is dropped to mimic a frontend
	// that does not expose it
	w.Header().Del(PodHeader)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = indexTemplate.Execute(w, struct {
		Pod   string
		Users []User
	}{
		Pod:   r.pod,
		Users: r.snapshot(),
	})
}

func (r *replica) list(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, r.snapshot())
}

func (r *replica) add(w http.ResponseWriter, req *http.Request) {
	u := User{}
	if errDecode := json.NewDecoder(req.Body).Decode(&u); errDecode != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": errDecode.Error()})
		return
	}
	if u.Name == "" || u.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": "name and email are required"})
		return
	}
	r.mu.Lock()
	r.users = append(r.users, u)
	r.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Package http exposes the workspace over a gin router.
//
// Routes mount under /api:
//   - Projects: /projects, /projects/{id}, /projects/{id}/select,
//     /projects/{id}/export, /projects/{id}/stats, /projects/{id}/reorder
//   - Breaks: /projects/{id}/breaks, /projects/{id}/breaks/{breakId},
//     /projects/{id}/breaks/{breakId}/switch
//   - Import and preview: /import, /preview
//   - Journal: /projects/{id}/journal, /projects/{id}/journal/backup
//   - Workspace: /workspace, /workspace/current
//   - Store events: /events (websocket)
//
// Host applications can register the API on their own gin router as needed.
package http

// Package config loads history.json, the configuration of historyd.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "host": "localhost",
//	    "port": 3000,
//	    "allowedOrigins": ["http://localhost:3000"],
//	    "maxFrameSize": 4096
//	  },
//	  "history": {
//	    "backend": "hash",
//	    "key": "history",
//	    "initialPath": ""
//	  },
//	  "redirects": {
//	    "": "home",
//	    "old-about": "about"
//	  },
//	  "metrics": { "enabled": true, "path": "/metrics", "namespace": "history" },
//	  "tracing": { "enabled": false, "tracerName": "historyd" },
//	  "log": { "level": "info", "format": "text" }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Address:", cfg.Address())
package config
